package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewAuction(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	seller := uuid.New()
	d := AuctionDraft{
		Title:         "Lamp",
		Description:   "Brass",
		StartingPrice: decimal.NewFromInt(40),
		StartTime:     now,
		EndTime:       now.Add(time.Hour),
	}

	a := NewAuction(seller, d, &Image{IsFront: true}, nil, now)

	if a.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}
	if !a.CurrentHighestBid.Equal(d.StartingPrice) {
		t.Fatalf("highest bid must start at the starting price, got %s", a.CurrentHighestBid)
	}
	if a.Status != StatusOpen || a.Views != 0 || a.HasBids() {
		t.Fatalf("unexpected initial state %+v", a)
	}
	if a.Category != DefaultCategory || a.Brand != DefaultCategory {
		t.Fatalf("expected default category and brand, got %q/%q", a.Category, a.Brand)
	}
}

func TestAuction_AcceptsBidsAt(t *testing.T) {
	end := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a := &Auction{Status: StatusOpen, EndTime: end}

	if !a.AcceptsBidsAt(end.Add(-time.Nanosecond)) {
		t.Fatal("expected bids before end time")
	}
	if a.AcceptsBidsAt(end) {
		t.Fatal("no bids at the end time")
	}
	a.Status = StatusClosed
	if a.AcceptsBidsAt(end.Add(-time.Hour)) {
		t.Fatal("closed auction must not accept bids")
	}
}

func TestAuction_Apply(t *testing.T) {
	now := time.Now().UTC()
	newEnd := now.Add(48 * time.Hour)
	empty := ""
	brand := "Leica"
	a := &Auction{Title: "old", Description: "old", Category: "cameras", Brand: "other", EndTime: now}

	a.Apply(AuctionPatch{Title: "new", Description: "desc", EndTime: &newEnd, Category: &empty, Brand: &brand}, now)

	if a.Title != "new" || a.Description != "desc" || !a.EndTime.Equal(newEnd) {
		t.Fatalf("patch not applied: %+v", a)
	}
	if a.Category != DefaultCategory || a.Brand != "Leica" {
		t.Fatalf("unexpected category/brand %q/%q", a.Category, a.Brand)
	}
}

func TestAuction_CloneIsDeep(t *testing.T) {
	bidID := uuid.New()
	a := &Auction{HighestBidID: &bidID, AdditionalImages: []Image{{Position: 1}}}
	c := a.Clone()

	*c.HighestBidID = uuid.New()
	c.AdditionalImages[0].Position = 9

	if *a.HighestBidID != bidID || a.AdditionalImages[0].Position != 1 {
		t.Fatal("clone shares state with the original")
	}
}
