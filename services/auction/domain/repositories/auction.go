package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// AuctionFilter narrows auction listings. Zero values match everything.
// Text filters are case-insensitive substring matches; price bounds apply to
// the starting price.
type AuctionFilter struct {
	Title      string
	Category   string
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SellerID   *uuid.UUID
	ActiveOnly bool      // open and not yet past end time
	Now        time.Time // reference time for ActiveOnly
}

// AuctionRepository is the persistence interface for the Auction aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Methods that mutate auction state are called from within WithLock (and so
// inside a transaction); reads may run anywhere.
type AuctionRepository interface {
	Save(ctx context.Context, a *models.Auction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	// GetImages returns the front image and additional images ordered by position.
	GetImages(ctx context.Context, id uuid.UUID) ([]models.Image, error)
	Find(ctx context.Context, f AuctionFilter, opts QueryOpts) ([]*models.Auction, int, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// WithLock serializes fn against every other WithLock on the same auction
	// and runs it inside a transaction. fn receives the locked, current row.
	// Returns ErrAuctionNotFound when the auction does not exist.
	WithLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, a *models.Auction) error) error

	Update(ctx context.Context, a *models.Auction) error
	// Delete removes the auction with its images and bids.
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordHighestBid overwrites the cached highest bid.
	RecordHighestBid(ctx context.Context, id, bidID uuid.UUID, amount decimal.Decimal, at time.Time) error
	// MarkClosed moves an open auction to closed, stamping end and closed time.
	// Reports false when the auction was already closed.
	MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// CloseExpired closes every open auction whose end time is at or before now
	// and returns the auctions it closed. End times are left as they were.
	CloseExpired(ctx context.Context, now time.Time) ([]*models.Auction, error)
}

// BidRepository is the append-only store of bids.
type BidRepository interface {
	Append(ctx context.Context, b *models.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	// Highest returns the top bid by amount, earliest first on ties; nil when none.
	Highest(ctx context.Context, auctionID uuid.UUID) (*models.Bid, error)
	Count(ctx context.Context, auctionID uuid.UUID) (int, error)
	// FindByAuction orders by amount descending.
	FindByAuction(ctx context.Context, auctionID uuid.UUID, opts QueryOpts) ([]*models.Bid, int, error)
	// FindByBidder orders by placement time, newest first.
	FindByBidder(ctx context.Context, bidderID uuid.UUID, opts QueryOpts) ([]*models.Bid, int, error)
	// FindLeadingByBidder returns the bidder's top bid per distinct auction, newest first.
	FindLeadingByBidder(ctx context.Context, bidderID uuid.UUID, opts QueryOpts) ([]*models.Bid, int, error)
	// DistinctBidders lists every bidder of an auction once.
	DistinctBidders(ctx context.Context, auctionID uuid.UUID) ([]uuid.UUID, error)
}

// Outbox records domain events in the caller's transaction for later delivery.
type Outbox interface {
	Enqueue(ctx context.Context, topic string, eventID uuid.UUID, payload any) error
}

// Transactor runs fn in a transaction that repositories pick up from ctx.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
