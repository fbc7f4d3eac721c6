// Package hub owns the live dashboard connections and their per-terminal
// subscriptions, and fans pushed messages out to them.
package hub

import (
	"encoding/json"
	"sync"

	"fleetwatch/models"
	"fleetwatch/services/registry"

	"go.uber.org/zap"
)

// Hub tracks every open connection and at most one terminal subscription
// per connection. Fan-out iterates a snapshot of the connection set taken
// at call time; one failing send never aborts delivery to the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]string // client -> subscribed terminal id ("" = none)

	registry *registry.Registry
	logger   *zap.Logger
}

// New creates a hub reading fleet snapshots from the given registry.
func New(reg *registry.Registry, logger *zap.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]string),
		registry: reg,
		logger:   logger,
	}
}

// Accept registers a new connection with no subscription. Must be called
// before any send to that connection.
func (h *Hub) Accept(c *Client) {
	h.mu.Lock()
	h.clients[c] = ""
	h.mu.Unlock()
}

// Close removes the connection and shuts down its writer. Safe to call
// more than once and while sends are in flight.
func (h *Hub) Close(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.closeSend()
}

// Subscribe sets the connection's terminal of interest, replacing any
// prior subscription.
func (h *Hub) Subscribe(c *Client, terminalID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.clients[c] = terminalID
		h.logger.Info("connection subscribed", zap.String("terminalID", terminalID))
	}
}

// Unsubscribe clears the connection's subscription.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.clients[c] = ""
		h.logger.Info("connection unsubscribed")
	}
}

// HasSubscriber reports whether any connection currently subscribes to
// the terminal.
func (h *Hub) HasSubscriber(terminalID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, subscribed := range h.clients {
		if subscribed == terminalID {
			return true
		}
	}
	return false
}

// PushToSubscribers delivers the message to every connection whose
// current subscription equals terminalID.
func (h *Hub) PushToSubscribers(terminalID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal push message", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c, subscribed := range h.clients {
		if subscribed == terminalID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	h.deliver(targets, data)
}

// BroadcastDeviceList sends the current fleet snapshot to every
// connection regardless of subscription.
func (h *Hub) BroadcastDeviceList() {
	h.BroadcastAll(models.DeviceListMessage{
		Type: models.MsgTypeDeviceList,
		Data: h.registry.Snapshot(),
	})
}

// BroadcastAll delivers an arbitrary message to every connection.
func (h *Hub) BroadcastAll(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	h.deliver(targets, data)
}

// Send delivers a message to a single connection (used for the telemetry
// replay on subscribe).
func (h *Hub) Send(c *Client, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal message", zap.Error(err))
		return
	}
	h.deliver([]*Client{c}, data)
}

// deliver enqueues data on each target, dropping any client that is
// closed or too far behind.
func (h *Hub) deliver(targets []*Client, data []byte) {
	for _, c := range targets {
		if !c.enqueue(data) {
			h.logger.Warn("dropping unresponsive connection")
			h.Close(c)
		}
	}
}
