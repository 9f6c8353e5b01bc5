package services

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/metrics"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/memory"
)

var pngFrame = base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nframe"))

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingBus captures every message published after a memory transaction commits.
type recordingBus struct {
	mu   sync.Mutex
	msgs map[string][]*message.Message
}

func newRecordingBus() *recordingBus {
	return &recordingBus{msgs: make(map[string][]*message.Message)}
}

func (b *recordingBus) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs[topic] = append(b.msgs[topic], msgs...)
	return nil
}

func (b *recordingBus) bidPlaced(t *testing.T) []domainevents.BidPlacedEvent {
	t.Helper()
	return decodeAll[domainevents.BidPlacedEvent](t, b, domainevents.TopicBidPlaced)
}

func (b *recordingBus) closed(t *testing.T) []domainevents.AuctionClosedEvent {
	t.Helper()
	return decodeAll[domainevents.AuctionClosedEvent](t, b, domainevents.TopicAuctionClosed)
}

func decodeAll[T any](t *testing.T, b *recordingBus, topic string) []T {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, 0, len(b.msgs[topic]))
	for _, m := range b.msgs[topic] {
		v, err := events.Decode[T](m)
		if err != nil {
			t.Fatalf("decode %s: %v", topic, err)
		}
		out = append(out, v)
	}
	return out
}

type fixture struct {
	clock    *fakeClock
	bus      *recordingBus
	store    *memory.Store
	registry *AuctionRegistry
	ledger   *BidLedger
	seller   auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newClock()
	bus := newRecordingBus()
	store := memory.NewStore(bus)
	m := metrics.New(prometheus.NewRegistry())
	log := logger.Nop()

	registry := NewAuctionRegistry(store, store.Auctions(), store.Bids(), store.Outbox(), m, log).WithClock(clock.Now)
	ledger := NewBidLedger(store.Auctions(), store.Bids(), registry, store.Outbox(), nil, m, log, time.Second).WithClock(clock.Now)

	return &fixture{
		clock:    clock,
		bus:      bus,
		store:    store,
		registry: registry,
		ledger:   ledger,
		seller:   auth.Actor{UserID: uuid.New(), Role: auth.RoleClient},
	}
}

func (f *fixture) draft(price string, duration time.Duration) models.AuctionDraft {
	now := f.clock.Now()
	return models.AuctionDraft{
		Title:         "Mechanical watch",
		Description:   "Serviced last year",
		StartingPrice: decimal.RequireFromString(price),
		StartTime:     now,
		EndTime:       now.Add(duration),
		FrontImage:    pngFrame,
	}
}

func (f *fixture) createAuction(t *testing.T, price string, duration time.Duration) *models.Auction {
	t.Helper()
	a, err := f.registry.Create(context.Background(), f.seller, f.draft(price, duration))
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	return a
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
