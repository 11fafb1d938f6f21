package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())

	e, err := NewEvent(EventPostCreated, map[string]int{"id": 1})
	require.NoError(t, err)
	assert.NoError(t, n.Publish(context.Background(), e))
	assert.NoError(t, n.StartFeedSubscriber(context.Background(), func(string) {
		t.Fatal("no message expected")
	}))
}

func TestNotifier_PublishReachesSubscriber(t *testing.T) {
	n := NewNotifier(newRedis(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payloads := make(chan string, 1)
	require.NoError(t, n.StartFeedSubscriber(ctx, func(payload string) {
		payloads <- payload
	}))

	e, err := NewEvent(EventCommentAdded, map[string]int{"postId": 3})
	require.NoError(t, err)
	require.NoError(t, n.Publish(ctx, e))

	select {
	case payload := <-payloads:
		var got Event
		require.NoError(t, json.Unmarshal([]byte(payload), &got))
		assert.Equal(t, EventCommentAdded, got.Type)
		assert.JSONEq(t, `{"postId":3}`, string(got.Payload))
	case <-time.After(testEventuallyTimeout):
		t.Fatal("timed out waiting for published event")
	}
}

func TestHub_WiringForwardsToClients(t *testing.T) {
	n := NewNotifier(newRedis(t))
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := hub.Register(nil)
	require.NoError(t, err)
	require.NoError(t, hub.StartWiring(ctx, n))

	e, err := NewEvent(EventPostCreated, map[string]int{"id": 8})
	require.NoError(t, err)
	require.NoError(t, n.Publish(ctx, e))

	assert.Eventually(t, func() bool { return len(client.Send) == 1 }, testEventuallyTimeout, testPollInterval)
	_ = hub.Shutdown(ctx)
}
