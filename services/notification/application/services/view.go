package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/notification/domain/models"
)

// View is the JSON shape of a notification, used by both the inbox API and
// the live stream.
type View struct {
	ID        uuid.UUID   `json:"id"         example:"6f1c2d0e-8a4b-4c1e-9d3a-2b7f5e8c9a10"`
	Kind      models.Kind `json:"kind"       swaggertype:"string" enums:"new_bid_on_your_item,outbid,auction_closed,auction_won,participation_thanks"`
	Message   string      `json:"message"    example:"You have been outbid on 'Lamp'. New bid: $120.50"`
	AuctionID uuid.UUID   `json:"auction_id"`
	IsRead    bool        `json:"is_read"`
	CreatedAt time.Time   `json:"created_at"`
} // @name Notification

func ToView(n *models.Notification) View {
	return View{
		ID:        n.ID,
		Kind:      n.Kind,
		Message:   n.Message,
		AuctionID: n.AuctionID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
