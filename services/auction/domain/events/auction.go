package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Watermill topics published by the auction module through the outbox.
const (
	TopicBidPlaced     = "auction.bid_placed"
	TopicAuctionClosed = "auction.closed"
)

// Version is the current schema version of both events.
const Version = 1

// CloseTrigger records what moved an auction to closed.
type CloseTrigger string

const (
	TriggerExplicit CloseTrigger = "explicit"
	TriggerExpired  CloseTrigger = "expired"
)

// BidPlacedEvent is enqueued in the same transaction that accepts a bid.
// PreviousBidderID is the leader displaced by this bid, nil for the first bid.
type BidPlacedEvent struct {
	EventID          uuid.UUID        `json:"event_id"` // Unique publish-time identifier for deduplication
	Version          int              `json:"version"`
	BidID            uuid.UUID        `json:"bid_id"`
	AuctionID        uuid.UUID        `json:"auction_id"`
	AuctionTitle     string           `json:"auction_title"`
	SellerID         uuid.UUID        `json:"seller_id"`
	BidderID         uuid.UUID        `json:"bidder_id"`
	Amount           decimal.Decimal  `json:"amount"`
	PreviousBidderID *uuid.UUID       `json:"previous_bidder_id,omitempty"`
	PreviousAmount   *decimal.Decimal `json:"previous_amount,omitempty"`
	OccurredAt       time.Time        `json:"occurred_at"`
}

// AuctionClosedEvent is enqueued exactly once per OPEN to CLOSED transition.
// Winner and participants are computed inside the closing transaction.
type AuctionClosedEvent struct {
	EventID       uuid.UUID        `json:"event_id"`
	Version       int              `json:"version"`
	AuctionID     uuid.UUID        `json:"auction_id"`
	AuctionTitle  string           `json:"auction_title"`
	SellerID      uuid.UUID        `json:"seller_id"`
	WinnerID      *uuid.UUID       `json:"winner_id,omitempty"`
	WinningAmount *decimal.Decimal `json:"winning_amount,omitempty"`
	Participants  []uuid.UUID      `json:"participants"` // distinct bidders, winner included
	Trigger       CloseTrigger     `json:"trigger"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
