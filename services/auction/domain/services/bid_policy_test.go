package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

func openAuction(seller uuid.UUID) *models.Auction {
	return &models.Auction{
		ID:                uuid.New(),
		SellerID:          seller,
		Status:            models.StatusOpen,
		StartingPrice:     decimal.NewFromInt(100),
		CurrentHighestBid: decimal.NewFromInt(100),
		StartTime:         testNow.Add(-time.Hour),
		EndTime:           testNow.Add(time.Hour),
	}
}

func TestCheckBid(t *testing.T) {
	seller := uuid.New()
	bidder := uuid.New()

	closed := openAuction(seller)
	closed.Status = models.StatusClosed

	expired := openAuction(seller)
	expired.EndTime = testNow

	tests := []struct {
		name    string
		auction *models.Auction
		bidder  uuid.UUID
		amount  string
		want    error
	}{
		{"accepted", openAuction(seller), bidder, "100.01", nil},
		{"equal to highest", openAuction(seller), bidder, "100", domain.ErrBidTooLow},
		{"below highest", openAuction(seller), bidder, "99.99", domain.ErrBidTooLow},
		{"self bid", openAuction(seller), seller, "150", domain.ErrSelfBid},
		{"closed auction", closed, bidder, "150", domain.ErrAuctionClosed},
		{"end time reached", expired, bidder, "150", domain.ErrAuctionClosed},
		// closed wins over self-bid and too-low
		{"closed and self and low", closed, seller, "1", domain.ErrAuctionClosed},
		// self-bid wins over too-low
		{"self and low", openAuction(seller), seller, "1", domain.ErrSelfBid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBid(tt.auction, tt.bidder, decimal.RequireFromString(tt.amount), testNow)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Fatalf("CheckBid() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHighestOf_TieBreaksOnEarlierPlacement(t *testing.T) {
	first := &models.Bid{ID: uuid.New(), Amount: decimal.NewFromInt(200), PlacedAt: testNow}
	second := &models.Bid{ID: uuid.New(), Amount: decimal.NewFromInt(200), PlacedAt: testNow.Add(time.Second)}
	low := &models.Bid{ID: uuid.New(), Amount: decimal.NewFromInt(150), PlacedAt: testNow.Add(-time.Hour)}

	if got := HighestOf([]*models.Bid{second, low, first}); got != first {
		t.Fatalf("expected earlier equal bid to win, got %+v", got)
	}
	if HighestOf(nil) != nil {
		t.Fatal("expected nil for no bids")
	}
}

func TestCheckHighestConsistency(t *testing.T) {
	a := openAuction(uuid.New())
	if err := CheckHighestConsistency(a, nil); err != nil {
		t.Fatalf("fresh auction must be consistent, got %v", err)
	}

	top := &models.Bid{ID: uuid.New(), Amount: decimal.NewFromInt(120)}
	if err := CheckHighestConsistency(a, top); !errors.Is(err, domain.ErrHighestBidMismatch) {
		t.Fatalf("expected mismatch when cache lags stored bids, got %v", err)
	}

	a.HighestBidID = &top.ID
	a.CurrentHighestBid = decimal.RequireFromString("120.00")
	if err := CheckHighestConsistency(a, top); err != nil {
		t.Fatalf("expected consistency, got %v", err)
	}

	if err := CheckHighestConsistency(a, nil); !errors.Is(err, domain.ErrHighestBidMismatch) {
		t.Fatalf("expected mismatch when bids vanished, got %v", err)
	}
}
