// Package services decides who is told what about auction activity.
package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	auctionevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
)

// PlanNewBid tells the seller about the bid and the holder of the previous
// highest bid that they were outbid, even when that holder placed the new bid.
func PlanNewBid(evt auctionevents.BidPlacedEvent) []models.Draft {
	drafts := []models.Draft{{
		RecipientID: evt.SellerID,
		Kind:        models.KindNewBidOnYourItem,
		Message:     fmt.Sprintf("New bid of $%s placed on your auction '%s'", money(evt.Amount), evt.AuctionTitle),
	}}
	if evt.PreviousBidderID != nil {
		drafts = append(drafts, models.Draft{
			RecipientID: *evt.PreviousBidderID,
			Kind:        models.KindOutbid,
			Message:     fmt.Sprintf("You have been outbid on '%s'. New bid: $%s", evt.AuctionTitle, money(evt.Amount)),
		})
	}
	return drafts
}

// PlanClosed tells the seller the auction ended, the winner that they won and
// every other bidder thanks for taking part.
func PlanClosed(evt auctionevents.AuctionClosedEvent) []models.Draft {
	drafts := []models.Draft{{
		RecipientID: evt.SellerID,
		Kind:        models.KindAuctionClosed,
		Message:     fmt.Sprintf("Your auction '%s' has ended", evt.AuctionTitle),
	}}
	if evt.WinnerID != nil && evt.WinningAmount != nil {
		drafts = append(drafts, models.Draft{
			RecipientID: *evt.WinnerID,
			Kind:        models.KindAuctionWon,
			Message: fmt.Sprintf("Congratulations! You won the auction '%s' with a bid of $%s",
				evt.AuctionTitle, money(*evt.WinningAmount)),
		})
	}

	seen := make(map[string]struct{}, len(evt.Participants))
	for _, p := range evt.Participants {
		if evt.WinnerID != nil && p == *evt.WinnerID {
			continue
		}
		if _, dup := seen[p.String()]; dup {
			continue
		}
		seen[p.String()] = struct{}{}
		drafts = append(drafts, models.Draft{
			RecipientID: p,
			Kind:        models.KindParticipationThanks,
			Message:     fmt.Sprintf("Auction '%s' has ended. Thank you for participating", evt.AuctionTitle),
		})
	}
	return drafts
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
