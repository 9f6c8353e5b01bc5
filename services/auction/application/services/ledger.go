package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/telemetry"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/metrics"
)

var tracer = otel.Tracer("github.com/ghuser/auctionhouse/services/auction")

// HighestBidReadModel is the Redis copy of each auction's leading bid.
// *cache.HighestBidCache implements it.
type HighestBidReadModel interface {
	Get(ctx context.Context, auctionID uuid.UUID) (*cache.CachedBid, error)
	Set(ctx context.Context, bid *cache.CachedBid) error
	Delete(ctx context.Context, auctionID uuid.UUID) error
}

// BidLedger accepts bids and answers bid queries. Placement runs under the
// auction lock; the registry's cached highest bid is updated in the same
// transaction as the bid row and the outbox entry.
type BidLedger struct {
	auctions   repositories.AuctionRepository
	bids       repositories.BidRepository
	registry   *AuctionRegistry
	outbox     repositories.Outbox
	readModel  HighestBidReadModel // optional
	metrics    *metrics.Metrics
	log        logger.Logger
	now        func() time.Time
	depTimeout time.Duration
}

// NewBidLedger wires the ledger. readModel may be nil.
func NewBidLedger(
	auctions repositories.AuctionRepository,
	bids repositories.BidRepository,
	registry *AuctionRegistry,
	outbox repositories.Outbox,
	readModel HighestBidReadModel,
	m *metrics.Metrics,
	log logger.Logger,
	depTimeout time.Duration,
) *BidLedger {
	return &BidLedger{
		auctions:   auctions,
		bids:       bids,
		registry:   registry,
		outbox:     outbox,
		readModel:  readModel,
		metrics:    m,
		log:        log.With("component", "bid_ledger"),
		now:        time.Now,
		depTimeout: depTimeout,
	}
}

// WithClock replaces the time source.
func (l *BidLedger) WithClock(now func() time.Time) *BidLedger {
	l.now = now
	return l
}

// PlaceBid records a bid if the auction is open, the bidder is not the seller
// and amount beats the current highest bid. Bids on one auction are
// serialized; bids on different auctions never wait on each other.
func (l *BidLedger) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*models.Bid, error) {
	ctx, span := tracer.Start(ctx, "BidLedger.PlaceBid")
	defer span.End()
	span.SetAttributes(
		attribute.String("auction.id", auctionID.String()),
		attribute.String("bid.amount", amount.String()),
	)
	defer l.metrics.ObservePlaceBid(time.Now())

	if err := domainsvcs.ValidateAmount(amount, "Bid amount"); err != nil {
		l.metrics.IncrementBidRejected(rejectReason(err))
		return nil, err
	}

	var placed *models.Bid
	err := l.auctions.WithLock(ctx, auctionID, func(ctx context.Context, a *models.Auction) error {
		now := l.now()
		if err := domainsvcs.CheckBid(a, bidderID, amount, now); err != nil {
			return err
		}

		top, err := l.bids.Highest(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("load highest bid: %w", err)
		}
		if err := domainsvcs.CheckHighestConsistency(a, top); err != nil {
			l.log.ErrorContext(ctx, "highest bid invariant violated",
				"auction_id", auctionID,
				"cached_amount", a.CurrentHighestBid,
				"cached_bid_id", a.HighestBidID,
				"error", err,
			)
			telemetry.ReportFault(ctx, err, map[string]string{"auction_id": auctionID.String()})
			return err
		}

		bid := models.NewBid(auctionID, bidderID, amount, now)
		if err := l.bids.Append(ctx, bid); err != nil {
			return fmt.Errorf("append bid: %w", err)
		}
		if err := l.registry.RecordHighestBid(ctx, auctionID, bid.ID, bid.Amount); err != nil {
			return fmt.Errorf("record highest bid: %w", err)
		}

		evt := domainevents.BidPlacedEvent{
			EventID:      uuid.New(),
			Version:      domainevents.Version,
			BidID:        bid.ID,
			AuctionID:    auctionID,
			AuctionTitle: a.Title,
			SellerID:     a.SellerID,
			BidderID:     bidderID,
			Amount:       bid.Amount,
			OccurredAt:   bid.PlacedAt,
		}
		if top != nil {
			prevBidder, prevAmount := top.BidderID, top.Amount
			evt.PreviousBidderID = &prevBidder
			evt.PreviousAmount = &prevAmount
		}
		if err := l.outbox.Enqueue(ctx, domainevents.TopicBidPlaced, evt.EventID, evt); err != nil {
			return fmt.Errorf("enqueue bid placed: %w", err)
		}
		placed = bid
		return nil
	})
	if err != nil {
		l.metrics.IncrementBidRejected(rejectReason(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	l.metrics.IncrementBidAccepted()
	l.refreshReadModel(ctx, placed)
	l.log.InfoContext(ctx, "bid placed", "auction_id", auctionID, "bid_id", placed.ID, "amount", placed.Amount)
	return placed, nil
}

// HighestBid returns the leading bid, or nil when the auction has none.
// The Redis read model answers when warm; otherwise the auction row's
// highest_bid_id is followed.
func (l *BidLedger) HighestBid(ctx context.Context, auctionID uuid.UUID) (*models.Bid, error) {
	if l.readModel != nil {
		cctx, cancel := context.WithTimeout(ctx, l.depTimeout)
		cached, err := l.readModel.Get(cctx, auctionID)
		cancel()
		if err == nil {
			return &models.Bid{
				ID:        cached.BidID,
				AuctionID: cached.AuctionID,
				BidderID:  cached.BidderID,
				Amount:    cached.Amount,
				PlacedAt:  cached.PlacedAt,
			}, nil
		}
		if !errors.Is(err, redis.Nil) {
			l.log.WarnContext(ctx, "highest bid cache read failed", "auction_id", auctionID, "error", err)
		}
	}

	a, err := l.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.HighestBidID == nil {
		return nil, nil
	}
	bid, err := l.bids.GetByID(ctx, *a.HighestBidID)
	if err != nil {
		return nil, fmt.Errorf("load highest bid: %w", err)
	}
	l.refreshReadModel(ctx, bid)
	return bid, nil
}

// BidsFor lists an auction's bids, highest first.
func (l *BidLedger) BidsFor(ctx context.Context, auctionID uuid.UUID, page models.PageRequest) (*models.Page[*models.Bid], error) {
	if _, err := l.auctions.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}
	items, total, err := l.bids.FindByAuction(ctx, auctionID, queryOpts(page))
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return models.NewPage(items, total, page), nil
}

// BidsBy lists a bidder's bids, newest first.
func (l *BidLedger) BidsBy(ctx context.Context, bidderID uuid.UUID, page models.PageRequest) (*models.Page[*models.Bid], error) {
	items, total, err := l.bids.FindByBidder(ctx, bidderID, queryOpts(page))
	if err != nil {
		return nil, fmt.Errorf("list bidder bids: %w", err)
	}
	return models.NewPage(items, total, page), nil
}

// LeadingBidsBy lists the bidder's best bid on each auction they bid on.
func (l *BidLedger) LeadingBidsBy(ctx context.Context, bidderID uuid.UUID, page models.PageRequest) (*models.Page[*models.Bid], error) {
	items, total, err := l.bids.FindLeadingByBidder(ctx, bidderID, queryOpts(page))
	if err != nil {
		return nil, fmt.Errorf("list leading bids: %w", err)
	}
	return models.NewPage(items, total, page), nil
}

// refreshReadModel writes bid to Redis after commit. A failed write drops the
// entry so readers fall back to the database.
func (l *BidLedger) refreshReadModel(ctx context.Context, bid *models.Bid) {
	if l.readModel == nil {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.depTimeout)
	defer cancel()

	err := l.readModel.Set(cctx, &cache.CachedBid{
		BidID:     bid.ID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		PlacedAt:  bid.PlacedAt,
	})
	if err == nil {
		return
	}
	l.log.WarnContext(ctx, "highest bid cache write failed", "auction_id", bid.AuctionID, "error", err)
	if err := l.readModel.Delete(cctx, bid.AuctionID); err != nil {
		l.log.WarnContext(ctx, "highest bid cache invalidation failed", "auction_id", bid.AuctionID, "error", err)
	}
}

func queryOpts(p models.PageRequest) repositories.QueryOpts {
	return repositories.QueryOpts{Limit: p.Size, Offset: p.Offset()}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAuctionClosed):
		return "closed"
	case errors.Is(err, domain.ErrSelfBid):
		return "self_bid"
	case errors.Is(err, domain.ErrBidTooLow):
		return "too_low"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrInvariant):
		return "invariant"
	default:
		return "error"
	}
}
