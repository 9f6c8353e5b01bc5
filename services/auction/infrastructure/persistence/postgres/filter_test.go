package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

func TestBuildFilter(t *testing.T) {
	minPrice := decimal.RequireFromString("10")
	seller := uuid.New()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    repositories.AuctionFilter
		wantWhere string
		wantArgs  int
	}{
		{"empty", repositories.AuctionFilter{}, "", 0},
		{"title", repositories.AuctionFilter{Title: "lamp"}, " WHERE title ILIKE $1", 1},
		{
			"combined",
			repositories.AuctionFilter{Brand: "acme", MinPrice: &minPrice, SellerID: &seller},
			" WHERE brand ILIKE $1 AND starting_price >= $2 AND seller_id = $3",
			3,
		},
		{
			"active",
			repositories.AuctionFilter{Category: "art", ActiveOnly: true, Now: now},
			" WHERE category ILIKE $1 AND status = 'open' AND end_time > $2",
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildFilter(tt.filter)
			if where != tt.wantWhere {
				t.Errorf("where: got %q, want %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args: got %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	if got := likePattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Fatalf("got %q", got)
	}
}
