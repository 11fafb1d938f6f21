package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(nil)
	require.NoError(t, err)
	b, err := hub.Register(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, hub.Len())

	hub.BroadcastAll([]byte("hello"))
	assert.Equal(t, []byte("hello"), <-a.Send)
	assert.Equal(t, []byte("hello"), <-b.Send)

	hub.UnregisterClient(a)
	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.Len())
	_, open := <-a.Send
	assert.False(t, open)

	e, err := NewEvent(EventFeedSnapshot, []int{1, 2})
	require.NoError(t, err)
	require.NoError(t, hub.BroadcastEvent(e))
	assert.Contains(t, string(<-b.Send), `"type":"feed_snapshot"`)
}

func TestHub_Limit(t *testing.T) {
	hub := NewHub()
	hub.limit = 1

	_, err := hub.Register(nil)
	require.NoError(t, err)
	_, err = hub.Register(nil)
	assert.ErrorIs(t, err, ErrHubFull)
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Equal(t, 0, hub.Len())
	_, open := <-c.Send
	assert.False(t, open)

	_, err = hub.Register(nil)
	assert.ErrorIs(t, err, ErrHubClosed)

	// Unregistering after shutdown must not close the queue twice.
	hub.UnregisterClient(c)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer+5; i++ {
		c.TrySend([]byte("x"))
	}
	assert.Len(t, c.Send, sendBuffer)

	hub.UnregisterClient(c)
	assert.NotPanics(t, func() { c.TrySend([]byte("late")) })
}
