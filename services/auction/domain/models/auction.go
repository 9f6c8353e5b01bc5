package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the auction lifecycle state. Closed is terminal.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// DefaultCategory is used for both category and brand when none is given.
const DefaultCategory = "other"

// Auction is the aggregate root of this bounded context.
//
// CurrentHighestBid starts at StartingPrice and never decreases. HighestBidID
// is nil until the first bid is accepted.
type Auction struct {
	ID                uuid.UUID
	Title             string
	Description       string
	StartingPrice     decimal.Decimal
	CurrentHighestBid decimal.Decimal
	HighestBidID      *uuid.UUID
	StartTime         time.Time
	EndTime           time.Time
	SellerID          uuid.UUID
	Status            Status
	Views             int64
	Category          string
	Brand             string
	FrontImage        *Image
	AdditionalImages  []Image
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ClosedAt          *time.Time
}

// AuctionDraft is the unvalidated input for a new auction.
// Images are base64 payloads, optionally with a data URL prefix.
type AuctionDraft struct {
	Title            string
	Description      string
	StartingPrice    decimal.Decimal
	StartTime        time.Time
	EndTime          time.Time
	Category         string
	Brand            string
	FrontImage       string
	AdditionalImages []string
}

// AuctionPatch is the editable subset of an auction. Nil fields are left unchanged.
type AuctionPatch struct {
	Title       string
	Description string
	EndTime     *time.Time
	Category    *string
	Brand       *string
}

// NewAuction builds an open auction from already validated fields.
func NewAuction(sellerID uuid.UUID, d AuctionDraft, front *Image, extra []Image, now time.Time) *Auction {
	return &Auction{
		ID:                uuid.New(),
		Title:             d.Title,
		Description:       d.Description,
		StartingPrice:     d.StartingPrice,
		CurrentHighestBid: d.StartingPrice,
		StartTime:         d.StartTime.UTC(),
		EndTime:           d.EndTime.UTC(),
		SellerID:          sellerID,
		Status:            StatusOpen,
		Category:          orDefault(d.Category),
		Brand:             orDefault(d.Brand),
		FrontImage:        front,
		AdditionalImages:  extra,
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
	}
}

// IsOpen reports whether the auction has not been closed.
func (a *Auction) IsOpen() bool {
	return a.Status == StatusOpen
}

// AcceptsBidsAt reports whether a bid placed at now may be considered.
func (a *Auction) AcceptsBidsAt(now time.Time) bool {
	return a.IsOpen() && now.Before(a.EndTime)
}

// HasBids reports whether any bid has been accepted.
func (a *Auction) HasBids() bool {
	return a.HighestBidID != nil
}

// Apply copies the non-nil patch fields onto the auction.
func (a *Auction) Apply(p AuctionPatch, now time.Time) {
	a.Title = p.Title
	a.Description = p.Description
	if p.EndTime != nil {
		a.EndTime = p.EndTime.UTC()
	}
	if p.Category != nil {
		a.Category = orDefault(*p.Category)
	}
	if p.Brand != nil {
		a.Brand = orDefault(*p.Brand)
	}
	a.UpdatedAt = now.UTC()
}

// Clone returns a deep copy. In-memory stores hand out clones so callers
// cannot mutate stored state.
func (a *Auction) Clone() *Auction {
	c := *a
	if a.HighestBidID != nil {
		id := *a.HighestBidID
		c.HighestBidID = &id
	}
	if a.ClosedAt != nil {
		t := *a.ClosedAt
		c.ClosedAt = &t
	}
	if a.FrontImage != nil {
		img := *a.FrontImage
		c.FrontImage = &img
	}
	if a.AdditionalImages != nil {
		c.AdditionalImages = append([]Image(nil), a.AdditionalImages...)
	}
	return &c
}

func orDefault(s string) string {
	if s == "" {
		return DefaultCategory
	}
	return s
}
