package notifications

import (
	"context"
	"errors"
	"sync"

	"socialpulse/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const maxFeedClients = 1000

// ErrHubFull is returned by Register when the connection limit is reached.
var ErrHubFull = errors.New("live feed connection limit reached")

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("live feed hub is shut down")

// Hub tracks the live feed websocket clients of this instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	limit   int
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{}), limit: maxFeedClients}
}

// Name identifies the hub in logs.
func (h *Hub) Name() string { return "feed hub" }

// Register adds conn. conn may be nil in tests.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	if len(h.clients) >= h.limit {
		return nil, ErrHubFull
	}

	c := newClient(h, conn)
	h.clients[c] = struct{}{}
	observability.FeedSubscribers.Inc()
	return c, nil
}

// UnregisterClient removes c and closes its send queue. It is idempotent.
func (h *Hub) UnregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	observability.FeedSubscribers.Dec()
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll queues message for every client.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.TrySend(message)
	}
}

// BroadcastEvent encodes e and queues it for every client.
func (h *Hub) BroadcastEvent(e Event) error {
	raw, err := e.Encode()
	if err != nil {
		return err
	}
	h.BroadcastAll(raw)
	return nil
}

// StartWiring forwards every event published through n to the local clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, func(payload string) {
		h.BroadcastAll([]byte(payload))
	})
}

// Shutdown drops every client. Closing a client's send queue makes its
// WritePump send the close frame.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Send)
		observability.FeedSubscribers.Dec()
	}
	return nil
}
