// Package subscribers connects the notification Dispatcher to the auction
// event topics.
package subscribers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	auctionevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	appsvcs "github.com/ghuser/auctionhouse/services/notification/application/services"
)

// Register subscribes d to the bid-placed and auction-closed topics. Handlers
// are idempotent; the bus retries a failing one with backoff.
func Register(ctx context.Context, bus events.Subscriber, d *appsvcs.Dispatcher, log logger.Logger) error {
	handlers := map[string]events.Handler{
		auctionevents.TopicBidPlaced:     handle(d.OnNewBid, log),
		auctionevents.TopicAuctionClosed: handle(d.OnAuctionClosed, log),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := bus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}
		go drain(ctx, topic, errCh, log)
		topics = append(topics, topic)
	}

	log.Info("notification subscribers registered", "topics", topics)
	return nil
}

// handle decodes the payload into T. A payload that does not decode is
// logged and acknowledged, since no retry can fix it.
func handle[T any](fn func(context.Context, T) error, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[T](msg)
		if err != nil {
			log.ErrorContext(ctx, "dropping undecodable event",
				"message_uuid", msg.UUID,
				"event_id", msg.Metadata.Get(events.MetadataEventID),
				"error", err,
			)
			return nil
		}
		return fn(ctx, evt)
	}
}

func drain(ctx context.Context, topic string, errCh <-chan error, log logger.Logger) {
	for err := range errCh {
		log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
	}
}
