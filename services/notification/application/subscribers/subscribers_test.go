package subscribers

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	auctionevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	appsvcs "github.com/ghuser/auctionhouse/services/notification/application/services"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/metrics"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/persistence/memory"
)

func waitForUnread(t *testing.T, repo *memory.NotificationRepository, recipient uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := repo.CountUnread(context.Background(), recipient); n == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	n, _ := repo.CountUnread(context.Background(), recipient)
	t.Fatalf("expected %d notifications for %s, got %d", want, recipient, n)
}

func publish(t *testing.T, bus *events.MemoryBus, topic string, eventID uuid.UUID, payload any) {
	t.Helper()
	msg, err := events.NewMessage(eventID, auctionevents.Version, payload)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	if err := bus.Publish(context.Background(), topic, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestRegister_DeliversAuctionEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewMemoryBus(logger.Nop()).WithRetryDelay(time.Millisecond)
	t.Cleanup(func() { _ = bus.Close() })

	repo := memory.NewNotificationRepository()
	d := appsvcs.NewDispatcher(repo, nil, metrics.New(prometheus.NewRegistry()), logger.Nop(), time.Second)
	if err := Register(ctx, bus, d, logger.Nop()); err != nil {
		t.Fatalf("register: %v", err)
	}

	seller, winner := uuid.New(), uuid.New()
	amount := decimal.RequireFromString("10")

	bid := auctionevents.BidPlacedEvent{
		EventID: uuid.New(), AuctionID: uuid.New(), AuctionTitle: "Lamp",
		SellerID: seller, BidderID: winner, Amount: amount,
	}
	publish(t, bus, auctionevents.TopicBidPlaced, bid.EventID, bid)
	// the same event again, as after an outbox redelivery
	publish(t, bus, auctionevents.TopicBidPlaced, bid.EventID, bid)

	closed := auctionevents.AuctionClosedEvent{
		EventID: uuid.New(), AuctionID: bid.AuctionID, AuctionTitle: "Lamp", SellerID: seller,
		WinnerID: &winner, WinningAmount: &amount, Participants: []uuid.UUID{winner},
		Trigger: auctionevents.TriggerExpired,
	}
	publish(t, bus, auctionevents.TopicAuctionClosed, closed.EventID, closed)

	waitForUnread(t, repo, seller, 2)
	waitForUnread(t, repo, winner, 1)
}

func TestHandle_UndecodablePayloadIsAcked(t *testing.T) {
	called := false
	h := handle(func(context.Context, auctionevents.BidPlacedEvent) error {
		called = true
		return nil
	}, logger.Nop())

	err := h(context.Background(), message.NewMessage(uuid.NewString(), []byte("{not json")))
	if err != nil {
		t.Fatalf("undecodable payload must not be retried: %v", err)
	}
	if called {
		t.Fatal("handler must not run for an undecodable payload")
	}
}
