// Package services contains the application services of the auction module:
// the AuctionRegistry (lifecycle) and the BidLedger (bid placement and queries).
package services

import (
	"time"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/events"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/metrics"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Registry *AuctionRegistry
	Ledger   *BidLedger
}

// New wires the auction services with PostgreSQL, the watermill outbox and
// the Redis read model from the Application container.
func New(a *app.Application) *Services {
	auctions := postgres.NewAuctionRepository(a.Db)
	bids := postgres.NewBidRepository(a.Db)
	outbox := events.NewTxOutbox(a.EventBus, domainevents.Version)
	m := metrics.New(a.Metrics)

	var readModel HighestBidReadModel
	if a.Redis != nil {
		readModel = cache.NewHighestBidCache(a.Redis)
	}

	timeout := 5 * time.Second
	if a.Config != nil && a.Config.DependencyTimeout > 0 {
		timeout = a.Config.DependencyTimeout
	}

	registry := NewAuctionRegistry(a.Db, auctions, bids, outbox, m, a.Logger)
	return &Services{
		Registry: registry,
		Ledger:   NewBidLedger(auctions, bids, registry, outbox, readModel, m, a.Logger, timeout),
	}
}
