package domain

import (
	"fmt"

	"github.com/ghuser/auctionhouse/pkg/apperr"
)

// Sentinel errors for the auction domain. Each wraps an apperr kind, so
// errors.Is works against both the specific sentinel and its kind.
var (
	// ErrAuctionNotFound indicates the requested auction does not exist.
	ErrAuctionNotFound = fmt.Errorf("auction %w", apperr.ErrNotFound)

	// ErrBidNotFound indicates a referenced bid does not exist.
	ErrBidNotFound = fmt.Errorf("bid %w", apperr.ErrNotFound)

	// ErrNotAuctionOwner indicates the actor is neither the seller nor an admin.
	ErrNotAuctionOwner = fmt.Errorf("%w: not authorized to modify this auction", apperr.ErrForbidden)

	// ErrAuctionClosed indicates the auction no longer accepts bids.
	ErrAuctionClosed = fmt.Errorf("%w: auction is closed", apperr.ErrConflict)

	// ErrSelfBid indicates the seller tried to bid on their own auction.
	ErrSelfBid = fmt.Errorf("%w: seller cannot bid on their own auction", apperr.ErrConflict)

	// ErrBidTooLow indicates the amount does not exceed the current highest bid.
	ErrBidTooLow = fmt.Errorf("%w: bid amount must be higher than current highest bid", apperr.ErrConflict)

	// ErrAuctionHasBids indicates an update or delete after bidding started.
	ErrAuctionHasBids = fmt.Errorf("%w: auction already has bids", apperr.ErrConflict)

	// ErrHighestBidMismatch indicates the auction's cached highest bid disagrees
	// with the stored bids.
	ErrHighestBidMismatch = fmt.Errorf("%w: cached highest bid disagrees with stored bids", apperr.ErrInvariant)
)
