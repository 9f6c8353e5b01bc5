// Package events provides the pub/sub plumbing between the auction and
// notification modules, built on Watermill. EventBus is PostgreSQL-backed and
// doubles as a transactional outbox; MemoryBus runs the same delivery loop on
// Watermill's in-process gochannel for tests and single-process setups.
//
// Delivery: subscribers sharing a consumer group split the messages between
// them. A handler error is retried in place with exponential backoff; after
// maxRetries the EventBus Nacks so Postgres redelivers later, while MemoryBus
// Acks and reports. Handlers must therefore be idempotent.
//
// Publish injects the caller's trace context into message metadata and
// Subscribe restores it, so a bid's span continues in the notification handler.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_forwarder_queue"
	forwarderGroup  = "outbox-forwarder"
)

// EventBus is a PostgreSQL-backed Bus on Watermill's SQL transport
// (FOR UPDATE SKIP LOCKED under the hood).
type EventBus struct {
	publisher    message.Publisher // SQL publisher, forwarder-wrapped in forwarder mode
	subscriber   *watermillsql.Subscriber
	fwd          *forwarder.Forwarder
	db           *sql.DB
	log          logger.Logger
	metrics      *Metrics
	wg           sync.WaitGroup
	useForwarder bool
}

type options struct {
	forwarder     bool
	consumerGroup string
	metrics       *Metrics
}

// Option configures NewEventBus.
type Option func(*options)

// WithForwarder routes every publish through the forwarder queue. Run
// StartForwarder on the same bus to deliver them to their topics.
func WithForwarder() Option {
	return func(o *options) { o.forwarder = true }
}

// WithConsumerGroup names the group sharing this bus's subscriptions.
// Instances in one group split the messages between them; distinct groups
// each receive every message. Defaults to "<service>-consumer".
func WithConsumerGroup(group string) Option {
	return func(o *options) { o.consumerGroup = group }
}

// WithMetrics records handler outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewEventBus opens its own *sql.DB on cfg.DatabaseURL and sets up the
// Watermill publisher and subscriber. Watermill creates its tables on first
// use.
func NewEventBus(cfg *config.Config, log logger.Logger, opts ...Option) (*EventBus, error) {
	o := options{consumerGroup: cfg.ServiceName + "-consumer"}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	q := &EventBus{db: db, log: log, metrics: o.metrics, useForwarder: o.forwarder}

	pub, err := q.sqlPublisher(db, true)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	q.publisher = q.wrap(pub)

	if q.subscriber, err = q.sqlSubscriber(o.consumerGroup); err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	log.Info("event bus ready", "consumer_group", o.consumerGroup, "forwarder", o.forwarder)
	return q, nil
}

// sqlPublisher writes to the topic tables through exec, which is either the
// bus's *sql.DB or a caller's *sql.Tx.
func (q *EventBus) sqlPublisher(exec watermillsql.ContextExecutor, initSchema bool) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(exec, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, &slogAdapter{log: q.log})
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func (q *EventBus) sqlSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(q.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, &slogAdapter{log: q.log})
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %q: %w", group, err)
	}
	return sub, nil
}

// wrap turns pub into an outbox publisher when the bus runs in forwarder mode.
func (q *EventBus) wrap(pub message.Publisher) message.Publisher {
	if !q.useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder drains the outbox queue into the real topics until ctx ends.
// It returns once the forwarder is running. Only valid on a bus built
// WithForwarder, and only once.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !q.useForwarder:
		return fmt.Errorf("events: bus was not built WithForwarder")
	case q.fwd != nil:
		return fmt.Errorf("events: forwarder already started")
	}

	queue, err := q.sqlSubscriber(forwarderGroup)
	if err != nil {
		return err
	}
	target, err := q.sqlPublisher(q.db, true)
	if err != nil {
		_ = queue.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(queue, target, &slogAdapter{log: q.log}, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = target.Close()
		_ = queue.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Go(func() {
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "outbox forwarder stopped", "error", err)
			return
		}
		q.log.InfoContext(ctx, "outbox forwarder stopped")
	})

	select {
	case <-fwd.Running():
		q.log.InfoContext(ctx, "outbox forwarder running")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// DB is the bus's own connection pool, separate from the application pool.
func (q *EventBus) DB() *sql.DB {
	return q.db
}

// NewTxPublisher binds a publisher to tx: messages become visible to
// subscribers only if tx commits. The topic tables already exist by then, so
// it skips schema initialization.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := q.sqlPublisher(tx, false)
	if err != nil {
		return nil, err
	}
	return q.wrap(pub), nil
}

// Publish sends msgs to topic outside any transaction, stamping the caller's
// trace context into each message's metadata.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe delivers topic to handler in the background until ctx ends. A
// message is acked when handler returns nil; after maxRetries failed attempts
// it is nacked, left for redelivery, and the error is sent on the returned
// channel. The channel is buffered and must be drained by the caller.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}
	d := delivery{topic: topic, handler: handler, baseDelay: retryBaseDelay, log: q.log, metrics: q.metrics}
	return d.run(ctx, &q.wg, ch), nil
}

// Ping checks the bus's database connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, lets in-flight handlers finish for up to
// shutdownTimeout, then releases the publisher and the pool.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: in-flight handlers still running at shutdown", "timeout", shutdownTimeout)
	}

	return errors.Join(q.publisher.Close(), q.db.Close())
}
