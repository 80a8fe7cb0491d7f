package model

import (
	"sync"
	"time"
)

// Clock counts down a player's thinking time. Running out has no effect on
// the outcome; the clock is shown to the players only.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// Reset stops the clock and sets the remaining time.
func (c *Clock) Reset(initialTime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = initialTime
	c.isRunning = false
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

// tenths is the remaining time in the unit clients display.
func (c *Clock) tenths() int {
	return int(c.GetTimeLeft().Milliseconds() / 100)
}
