package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the notification type shown to the recipient.
type Kind string

const (
	KindNewBidOnYourItem    Kind = "new_bid_on_your_item"
	KindOutbid              Kind = "outbid"
	KindAuctionClosed       Kind = "auction_closed"
	KindAuctionWon          Kind = "auction_won"
	KindParticipationThanks Kind = "participation_thanks"
)

// Notification is one inbox entry. EventID, RecipientID and Kind together
// identify it across redeliveries of the same domain event.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Kind        Kind
	Message     string
	AuctionID   uuid.UUID
	EventID     uuid.UUID
	IsRead      bool
	CreatedAt   time.Time
}

// Draft is a planned notification before it is stored.
type Draft struct {
	RecipientID uuid.UUID
	Kind        Kind
	Message     string
}

func NewNotification(eventID, auctionID uuid.UUID, d Draft, now time.Time) *Notification {
	return &Notification{
		ID:          uuid.New(),
		RecipientID: d.RecipientID,
		Kind:        d.Kind,
		Message:     d.Message,
		AuctionID:   auctionID,
		EventID:     eventID,
		CreatedAt:   now.UTC(),
	}
}

type PageRequest struct {
	Number int
	Size   int
}

func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

type Page struct {
	Items  []*Notification
	Total  int
	Number int
	Size   int
}
