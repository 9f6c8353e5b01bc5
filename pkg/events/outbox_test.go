package events

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type failingFactory struct{ called bool }

func (f *failingFactory) NewTxPublisher(*sql.Tx) (message.Publisher, error) {
	f.called = true
	return nil, errors.New("unexpected call")
}

func TestTxOutbox_RequiresTransaction(t *testing.T) {
	f := &failingFactory{}
	o := NewTxOutbox(f, 1)

	err := o.Enqueue(context.Background(), "auction.closed", uuid.New(), samplePayload{Title: "x"})
	if !errors.Is(err, ErrNoTransaction) {
		t.Fatalf("expected ErrNoTransaction, got %v", err)
	}
	if f.called {
		t.Fatal("publisher factory must not be used without a transaction")
	}
}
