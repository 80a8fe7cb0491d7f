package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

func (f *fakeTime) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestClock(initial time.Duration) (*Clock, *fakeTime) {
	ft := &fakeTime{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewClock(initial)
	c.now = ft.Now
	return c, ft
}

func TestClock(t *testing.T) {
	c, ft := newTestClock(time.Minute)
	assert.Equal(t, time.Minute, c.GetTimeLeft())

	ft.advance(10 * time.Second)
	assert.Equal(t, time.Minute, c.GetTimeLeft(), "a stopped clock does not run")

	c.Start()
	ft.advance(15 * time.Second)
	assert.Equal(t, 45*time.Second, c.GetTimeLeft())

	c.Start()
	ft.advance(5 * time.Second)
	c.Stop()
	assert.Equal(t, 40*time.Second, c.GetTimeLeft(), "a second start does not restart the count")
	assert.Equal(t, 400, c.tenths())

	ft.advance(time.Hour)
	assert.Equal(t, 40*time.Second, c.GetTimeLeft())
}

func TestClockNeverNegative(t *testing.T) {
	c, ft := newTestClock(time.Second)
	c.Start()
	ft.advance(3 * time.Second)
	assert.Equal(t, time.Duration(0), c.GetTimeLeft())
	c.Stop()
	assert.Equal(t, 0, c.tenths())

	c.Reset(2 * time.Second)
	assert.Equal(t, 2*time.Second, c.GetTimeLeft())
}
