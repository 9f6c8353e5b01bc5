package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

// MemoryBus is an in-process Bus on Watermill's gochannel pub/sub.
// Messages are kept for late subscribers (Persistent) and a message whose
// handler keeps failing is Acked after reporting, since gochannel would
// otherwise redeliver a Nacked message forever.
type MemoryBus struct {
	pubsub    *gochannel.GoChannel
	log       logger.Logger
	wg        sync.WaitGroup
	baseDelay time.Duration
	metrics   *Metrics
}

// NewMemoryBus returns a ready MemoryBus.
func NewMemoryBus(log logger.Logger) *MemoryBus {
	return &MemoryBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 100,
			Persistent:          true,
		}, &slogAdapter{log: log}),
		log:       log,
		baseDelay: retryBaseDelay,
	}
}

// WithRetryDelay overrides the first retry delay. Tests use a millisecond.
func (b *MemoryBus) WithRetryDelay(d time.Duration) *MemoryBus {
	b.baseDelay = d
	return b
}

// WithMetrics records handler outcomes on m.
func (b *MemoryBus) WithMetrics(m *Metrics) *MemoryBus {
	b.metrics = m
	return b
}

// Publish injects trace context and publishes msgs to topic.
func (b *MemoryBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := b.pubsub.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe has the same retry and error-channel contract as EventBus.Subscribe.
func (b *MemoryBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}
	d := delivery{topic: topic, handler: handler, baseDelay: b.baseDelay, ackOnFailure: true, log: b.log, metrics: b.metrics}
	return d.run(ctx, &b.wg, ch), nil
}

// Ping always succeeds.
func (b *MemoryBus) Ping(context.Context) error { return nil }

// Close stops delivery and waits for in-flight handlers.
func (b *MemoryBus) Close() error {
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("events: close memory bus: %w", err)
	}
	b.wg.Wait()
	return nil
}
