package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeError, ErrorPayload{Error: "not your turn"})
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","payload":{"error":"not your turn"}}`, string(data))

	_, err = NewMessage(MessageTypeGameState, func() {})
	assert.Error(t, err)
}

func TestMessageWithoutPayload(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"type":"confirm"}`), &msg))
	assert.Equal(t, MessageTypeConfirm, msg.Type)
	assert.Empty(t, msg.Payload)

	data, err := json.Marshal(Message{Type: MessageTypeReset})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"reset"}`, string(data))
}
