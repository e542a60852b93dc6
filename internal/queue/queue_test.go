package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "manifest", Body: []byte("42")}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, "manifest", msg.Type)
		assert.Equal(t, "42", string(msg.Body))
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestInMemoryPublishCancelled(t *testing.T) {
	q := NewInMemory(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Publish(ctx, Message{Type: "manifest"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerializeRoundTrip(t *testing.T) {
	msg, err := deserialize(serialize(Message{Type: "manifest", Body: []byte("7|extra")}))
	require.NoError(t, err)
	assert.Equal(t, "manifest", msg.Type)
	assert.Equal(t, "7|extra", string(msg.Body))

	// Untyped payloads survive as bare bodies.
	msg, err = deserialize("just-a-body")
	require.NoError(t, err)
	assert.Equal(t, "", msg.Type)
	assert.Equal(t, "just-a-body", string(msg.Body))
}
