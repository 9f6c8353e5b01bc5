package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

const (
	outboundBuffer    = 16
	heartbeatInterval = 15 * time.Second
)

// Client is one open event stream.
type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Message
	channels map[string]bool
	done     chan struct{}
}

// Hub fans messages out to the clients subscribed to their channel.
// A client whose buffer is full misses the message; the inbox API remains
// the source of truth.
type Hub struct {
	mu            sync.RWMutex
	log           logger.Logger
	subscriptions map[string]map[*Client]bool
}

// NewHub returns an empty Hub.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "sse_hub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// NewClient returns a client for userID subscribed to its user channel.
func (h *Hub) NewClient(userID uuid.UUID) *Client {
	c := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, outboundBuffer),
		channels: make(map[string]bool),
		done:     make(chan struct{}),
	}
	h.AddChannel(c, UserChannel(userID))
	return c
}

// AddChannel subscribes c to channel.
func (h *Hub) AddChannel(c *Client, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	c.channels[channel] = true
	clients, ok := h.subscriptions[channel]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[channel] = clients
	}
	clients[c] = true
	h.log.Debug("sse client subscribed", "client_id", c.ID, "channel", channel)
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range c.channels {
		if subs, ok := h.subscriptions[ch]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.subscriptions, ch)
			}
		}
	}
	c.channels = make(map[string]bool)
}

// CloseClient unsubscribes c and closes its outbound channel.
func (h *Hub) CloseClient(c *Client) {
	close(c.done)
	h.removeClient(c)
	close(c.Outbound)
}

// Broadcast delivers msg to every subscriber of msg.Channel without blocking.
func (h *Hub) Broadcast(msg Message) {
	if msg.Channel == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subscriptions[msg.Channel] {
		select {
		case c.Outbound <- msg:
		default:
			h.log.Warn("dropping sse message, outbound buffer full", "client_id", c.ID, "channel", msg.Channel)
		}
	}
}

// Publish broadcasts in-process. Used when API and worker share one process.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	h.Broadcast(msg)
	return nil
}

// Subscribers reports how many clients listen on channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[channel])
}

// ServeHTTP streams c's messages until the request ends or the client is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, c *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	// The server-wide WriteTimeout would cut the stream; heartbeats detect dead peers instead.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-c.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(msg)
			if err != nil {
				h.log.WarnContext(ctx, "failed to marshal sse message", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, raw)
			flusher.Flush()
		}
	}
}
