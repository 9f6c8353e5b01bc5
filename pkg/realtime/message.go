// Package realtime pushes live messages to connected browsers over
// server-sent events. The worker publishes on a Redis channel; each API
// process forwards what it receives into its in-process Hub.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Event names the kind of payload carried by a Message.
type Event string

const (
	EventNotificationCreated Event = "NotificationCreated"
)

// Message is one live push addressed to a hub channel.
type Message struct {
	Channel string          `json:"channel"`
	Event   Event           `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Publisher is implemented by RedisBus and Hub.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// UserChannel is the channel every stream of userID subscribes to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// NewMessage marshals data into a Message for channel.
func NewMessage(channel string, event Event, data any) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Channel: channel, Event: event, Data: raw}, nil
}
