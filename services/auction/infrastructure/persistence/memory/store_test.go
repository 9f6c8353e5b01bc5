package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func seedAuction(t *testing.T, s *Store, title string, price string, end time.Time) *models.Auction {
	t.Helper()
	a := models.NewAuction(uuid.New(), models.AuctionDraft{
		Title:         title,
		Description:   "desc",
		StartingPrice: decimal.RequireFromString(price),
		StartTime:     t0,
		EndTime:       end,
	}, &models.Image{ID: uuid.New(), IsFront: true, ContentType: "image/png", Data: []byte{1}}, nil, t0)
	if err := s.Auctions().Save(context.Background(), a); err != nil {
		t.Fatalf("save: %v", err)
	}
	return a
}

func TestInTx_PublishesOnlyOnSuccess(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewStore(pub)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context) error {
		if err := s.Outbox().Enqueue(ctx, "auction.closed", uuid.New(), map[string]string{"k": "v"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if pub.count() != 0 {
		t.Fatalf("failed tx published %d messages", pub.count())
	}

	err = s.InTx(ctx, func(ctx context.Context) error {
		return s.Outbox().Enqueue(ctx, "auction.closed", uuid.New(), map[string]string{"k": "v"})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.count() != 1 {
		t.Fatalf("expected 1 published message, got %d", pub.count())
	}
}

func TestFind_Filters(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	lamp := seedAuction(t, s, "Vintage Lamp", "10.00", t0.Add(time.Hour))
	seedAuction(t, s, "Oak Table", "150.00", t0.Add(time.Hour))
	seedAuction(t, s, "Desk lamp", "25.00", t0.Add(-time.Minute))

	minPrice := decimal.RequireFromString("20")

	tests := []struct {
		name   string
		filter repositories.AuctionFilter
		want   int
	}{
		{"no filter", repositories.AuctionFilter{}, 3},
		{"title case-insensitive", repositories.AuctionFilter{Title: "LAMP"}, 2},
		{"min price", repositories.AuctionFilter{MinPrice: &minPrice}, 2},
		{"active only", repositories.AuctionFilter{ActiveOnly: true, Now: t0}, 2},
		{"seller", repositories.AuctionFilter{SellerID: &lamp.SellerID}, 1},
		{"category default", repositories.AuctionFilter{Category: "other"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.Auctions().Find(ctx, tt.filter, repositories.QueryOpts{Limit: 10})
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if total != tt.want || len(got) != tt.want {
				t.Fatalf("got %d items (total %d), want %d", len(got), total, tt.want)
			}
		})
	}
}

func TestFind_Paginates(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < 5; i++ {
		seedAuction(t, s, "Item", "1.00", t0.Add(time.Hour))
	}
	got, total, err := s.Auctions().Find(context.Background(), repositories.AuctionFilter{}, repositories.QueryOpts{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if total != 5 || len(got) != 1 {
		t.Fatalf("got %d items (total %d)", len(got), total)
	}
}

func TestGetImages_FrontFirst(t *testing.T) {
	s := NewStore(nil)
	a := models.NewAuction(uuid.New(), models.AuctionDraft{
		Title: "t", Description: "d", StartingPrice: decimal.NewFromInt(1), StartTime: t0, EndTime: t0.Add(time.Hour),
	}, &models.Image{ID: uuid.New(), Position: 0, IsFront: true},
		[]models.Image{{ID: uuid.New(), Position: 2}, {ID: uuid.New(), Position: 1}}, t0)
	if err := s.Auctions().Save(context.Background(), a); err != nil {
		t.Fatalf("save: %v", err)
	}

	imgs, err := s.Auctions().GetImages(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(imgs) != 3 || !imgs[0].IsFront || imgs[2].Position != 2 {
		t.Fatalf("unexpected images %+v", imgs)
	}

	stored, _ := s.Auctions().GetByID(context.Background(), a.ID)
	if stored.FrontImage != nil {
		t.Fatal("GetByID should not load images")
	}
}

func TestMarkClosed_IsCompareAndSet(t *testing.T) {
	s := NewStore(nil)
	a := seedAuction(t, s, "Clock", "5.00", t0.Add(time.Hour))
	ctx := context.Background()

	ok, err := s.Auctions().MarkClosed(ctx, a.ID, t0)
	if err != nil || !ok {
		t.Fatalf("first close: ok=%v err=%v", ok, err)
	}
	ok, err = s.Auctions().MarkClosed(ctx, a.ID, t0.Add(time.Minute))
	if err != nil || ok {
		t.Fatalf("second close: ok=%v err=%v", ok, err)
	}

	got, _ := s.Auctions().GetByID(ctx, a.ID)
	if !got.EndTime.Equal(t0) || got.ClosedAt == nil || !got.ClosedAt.Equal(t0) {
		t.Fatalf("end=%v closed=%v, want both %v", got.EndTime, got.ClosedAt, t0)
	}
}

func TestCloseExpired_KeepsEndTime(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	end := t0.Add(-time.Minute)
	expired := seedAuction(t, s, "Old", "5.00", end)
	seedAuction(t, s, "Fresh", "5.00", t0.Add(time.Hour))
	boundary := seedAuction(t, s, "Boundary", "5.00", t0)

	closed, err := s.Auctions().CloseExpired(ctx, t0)
	if err != nil {
		t.Fatalf("close expired: %v", err)
	}
	if len(closed) != 2 {
		t.Fatalf("expected 2 closed, got %d", len(closed))
	}

	got, _ := s.Auctions().GetByID(ctx, expired.ID)
	if got.IsOpen() || !got.EndTime.Equal(end) {
		t.Fatalf("expired auction: status=%s end=%v", got.Status, got.EndTime)
	}
	if b, _ := s.Auctions().GetByID(ctx, boundary.ID); b.IsOpen() {
		t.Fatal("auction ending exactly now should be closed")
	}

	again, err := s.Auctions().CloseExpired(ctx, t0)
	if err != nil || len(again) != 0 {
		t.Fatalf("second sweep closed %d (err %v)", len(again), err)
	}
}

func TestDelete_CascadesBids(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	a := seedAuction(t, s, "Vase", "5.00", t0.Add(time.Hour))
	bid := models.NewBid(a.ID, uuid.New(), decimal.NewFromInt(6), t0)
	if err := s.Bids().Append(ctx, bid); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.Auctions().Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Auctions().GetByID(ctx, a.ID); !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Bids().GetByID(ctx, bid.ID); !errors.Is(err, domain.ErrBidNotFound) {
		t.Fatalf("expected bid not found, got %v", err)
	}
}

func TestDelete_ReleasesAuctionLock(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	a := seedAuction(t, s, "Vase", "5.00", t0.Add(time.Hour))

	err := s.Auctions().WithLock(ctx, a.ID, func(ctx context.Context, a *models.Auction) error {
		return s.Auctions().Delete(ctx, a.ID)
	})
	if err != nil {
		t.Fatalf("delete under lock: %v", err)
	}

	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if _, ok := s.locks[a.ID]; ok {
		t.Fatal("lock entry kept after the auction was deleted")
	}
}

func TestBids_Queries(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	a1 := seedAuction(t, s, "A", "1.00", t0.Add(time.Hour))
	a2 := seedAuction(t, s, "B", "1.00", t0.Add(time.Hour))
	alice, bob := uuid.New(), uuid.New()

	place := func(a *models.Auction, bidder uuid.UUID, amount int64, at time.Duration) {
		if err := s.Bids().Append(ctx, models.NewBid(a.ID, bidder, decimal.NewFromInt(amount), t0.Add(at))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	place(a1, alice, 5, 1*time.Second)
	place(a1, bob, 7, 2*time.Second)
	place(a1, alice, 9, 3*time.Second)
	place(a2, alice, 4, 4*time.Second)

	top, err := s.Bids().Highest(ctx, a1.ID)
	if err != nil || top == nil || !top.Amount.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("highest: %+v (err %v)", top, err)
	}
	if none, _ := s.Bids().Highest(ctx, uuid.New()); none != nil {
		t.Fatal("expected nil highest for auction without bids")
	}

	byAuction, total, _ := s.Bids().FindByAuction(ctx, a1.ID, repositories.QueryOpts{Limit: 10})
	if total != 3 || !byAuction[0].Amount.Equal(decimal.NewFromInt(9)) || !byAuction[2].Amount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("bids by auction not ordered by amount desc: %+v", byAuction)
	}

	byBidder, total, _ := s.Bids().FindByBidder(ctx, alice, repositories.QueryOpts{Limit: 10})
	if total != 3 || byBidder[0].AuctionID != a2.ID {
		t.Fatalf("bids by bidder not newest first: %+v", byBidder)
	}

	leading, total, _ := s.Bids().FindLeadingByBidder(ctx, alice, repositories.QueryOpts{Limit: 10})
	if total != 2 || len(leading) != 2 {
		t.Fatalf("expected one leading bid per auction, got %d", total)
	}
	for _, b := range leading {
		if b.AuctionID == a1.ID && !b.Amount.Equal(decimal.NewFromInt(9)) {
			t.Fatalf("leading bid on a1 should be 9, got %s", b.Amount)
		}
	}

	bidders, _ := s.Bids().DistinctBidders(ctx, a1.ID)
	if len(bidders) != 2 {
		t.Fatalf("expected 2 distinct bidders, got %d", len(bidders))
	}
	if n, _ := s.Bids().Count(ctx, a1.ID); n != 3 {
		t.Fatalf("count: %d", n)
	}
}

func TestWithLock_NotFound(t *testing.T) {
	s := NewStore(nil)
	err := s.Auctions().WithLock(context.Background(), uuid.New(), func(context.Context, *models.Auction) error {
		t.Fatal("fn must not run for a missing auction")
		return nil
	})
	if !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
