package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

// delivery runs one subscription's handler over its message channel.
type delivery struct {
	topic        string
	handler      Handler
	baseDelay    time.Duration
	ackOnFailure bool // Ack exhausted messages instead of Nacking them
	log          logger.Logger
	metrics      *Metrics
}

// run drains ch in a goroutine tracked by wg. Exhausted failures go to the
// returned channel (capacity 100); a full channel drops them with a log line.
func (d delivery) run(ctx context.Context, wg *sync.WaitGroup, ch <-chan *message.Message) <-chan error {
	errCh := make(chan error, 100)
	propagator := otel.GetTextMapPropagator()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(errCh)

		for msg := range ch {
			carrier := propagation.MapCarrier{}
			for k, v := range msg.Metadata {
				carrier[k] = v
			}
			msgCtx := propagator.Extract(ctx, carrier)

			start := time.Now()
			err := retryWithBackoff(msgCtx, msg, d.handler, maxRetries, d.baseDelay, d.log)
			if err == nil {
				d.metrics.observe(d.topic, outcomeAcked, start)
				msg.Ack()
				continue
			}
			d.metrics.observe(d.topic, outcomeFailed, start)
			if d.ackOnFailure {
				msg.Ack()
			} else {
				msg.Nack()
			}
			select {
			case errCh <- fmt.Errorf("%s: %w", d.topic, err):
			default:
				d.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
					"error", err, "topic", d.topic)
			}
		}
	}()

	return errCh
}

// retryWithBackoff calls handler up to maxRetries times, doubling the delay
// after each failure. It returns the last error once all attempts fail.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	maxRetries int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt < maxRetries {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt,
				"max_retries", maxRetries,
				"message_uuid", msg.UUID,
				"event_id", msg.Metadata.Get(MetadataEventID),
				"next_delay", delay,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", maxRetries, err)
}

// slogAdapter routes Watermill's internal logging through logger.Logger.
// Watermill's trace level maps to debug.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
