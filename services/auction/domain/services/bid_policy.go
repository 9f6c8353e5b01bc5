package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// CheckBid applies the acceptance rules in order: the auction must be open and
// before its end time, the bidder must not be the seller, and the amount must
// exceed the current highest bid. Amount sanity is checked by ValidateAmount first.
func CheckBid(a *models.Auction, bidderID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	if !a.AcceptsBidsAt(now) {
		return domain.ErrAuctionClosed
	}
	if a.SellerID == bidderID {
		return domain.ErrSelfBid
	}
	if !amount.GreaterThan(a.CurrentHighestBid) {
		return domain.ErrBidTooLow
	}
	return nil
}

// Outranks reports whether x beats y: higher amount, then earlier placement.
func Outranks(x, y *models.Bid) bool {
	if c := x.Amount.Cmp(y.Amount); c != 0 {
		return c > 0
	}
	return x.PlacedAt.Before(y.PlacedAt)
}

// HighestOf returns the winning bid of bids, or nil when there are none.
func HighestOf(bids []*models.Bid) *models.Bid {
	var best *models.Bid
	for _, b := range bids {
		if best == nil || Outranks(b, best) {
			best = b
		}
	}
	return best
}

// CheckHighestConsistency compares the auction's cached highest bid with the
// top stored bid (nil when the auction has none).
func CheckHighestConsistency(a *models.Auction, top *models.Bid) error {
	if top == nil {
		if a.HighestBidID != nil || !a.CurrentHighestBid.Equal(a.StartingPrice) {
			return domain.ErrHighestBidMismatch
		}
		return nil
	}
	if a.HighestBidID == nil || *a.HighestBidID != top.ID || !a.CurrentHighestBid.Equal(top.Amount) {
		return domain.ErrHighestBidMismatch
	}
	return nil
}
