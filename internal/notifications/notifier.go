// Package notifications delivers live feed events to websocket clients, across
// server instances through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"socialpulse/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel carrying feed events between instances.
const FeedChannel = "socialpulse:feed"

// Event types.
const (
	EventFeedSnapshot = "feed_snapshot"
	EventPostCreated  = "post_created"
	EventCommentAdded = "comment_added"
)

// Event is the envelope written to websocket clients.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// NewEvent encodes payload into an Event of type eventType.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw, At: time.Now().UTC()}, nil
}

// Encode returns the wire form of e.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier publishes feed events to Redis. A Notifier without a client is a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier on rdb, which may be nil.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events leave the process.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// Publish sends e to every instance subscribed to FeedChannel.
func (n *Notifier) Publish(ctx context.Context, e Event) error {
	if !n.Enabled() {
		return nil
	}
	raw, err := e.Encode()
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, FeedChannel, raw).Err()
}

// StartFeedSubscriber calls onMessage for every payload published on
// FeedChannel until ctx is done. The subscription is confirmed before it
// returns.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if !n.Enabled() {
		return nil
	}

	sub := n.rdb.Subscribe(ctx, FeedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.GlobalLogger.Error("panic in feed subscriber",
								"panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
