package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/auctionhouse/pkg/database"
)

// ErrNoTransaction is returned by TxOutbox.Enqueue outside database.InTx.
var ErrNoTransaction = errors.New("events: outbox requires a transaction in context")

// TxPublisherFactory is implemented by EventBus.
type TxPublisherFactory interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

// TxOutbox writes events into the watermill SQL tables using the transaction
// carried by ctx, so they become visible to subscribers only on commit.
type TxOutbox struct {
	factory TxPublisherFactory
	version int
}

// NewTxOutbox returns a TxOutbox tagging messages with the given schema version.
func NewTxOutbox(factory TxPublisherFactory, version int) *TxOutbox {
	return &TxOutbox{factory: factory, version: version}
}

// Enqueue marshals payload and publishes it through the ctx transaction.
func (o *TxOutbox) Enqueue(ctx context.Context, topic string, eventID uuid.UUID, payload any) error {
	tx, ok := database.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	msg, err := NewMessage(eventID, o.version, payload)
	if err != nil {
		return err
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	pub, err := o.factory.NewTxPublisher(tx)
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("events: enqueue %s: %w", topic, err)
	}
	return nil
}
