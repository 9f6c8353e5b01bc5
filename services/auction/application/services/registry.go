package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/metrics"
)

// AuctionRegistry owns the auction lifecycle: creation, edits, explicit close,
// deletion and the expiration sweep. Closure events are enqueued in the same
// transaction as the state change that produced them.
type AuctionRegistry struct {
	tx       repositories.Transactor
	auctions repositories.AuctionRepository
	bids     repositories.BidRepository
	outbox   repositories.Outbox
	metrics  *metrics.Metrics
	log      logger.Logger
	now      func() time.Time
}

// NewAuctionRegistry wires the registry with its repositories.
func NewAuctionRegistry(
	tx repositories.Transactor,
	auctions repositories.AuctionRepository,
	bids repositories.BidRepository,
	outbox repositories.Outbox,
	m *metrics.Metrics,
	log logger.Logger,
) *AuctionRegistry {
	return &AuctionRegistry{
		tx:       tx,
		auctions: auctions,
		bids:     bids,
		outbox:   outbox,
		metrics:  m,
		log:      log.With("component", "auction_registry"),
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (r *AuctionRegistry) WithClock(now func() time.Time) *AuctionRegistry {
	r.now = now
	return r
}

// Create validates the draft and stores a new open auction owned by actor.
func (r *AuctionRegistry) Create(ctx context.Context, actor auth.Actor, d models.AuctionDraft) (*models.Auction, error) {
	now := r.now()
	front, extra, err := domainsvcs.ValidateDraft(d, now)
	if err != nil {
		return nil, err
	}

	a := models.NewAuction(actor.UserID, d, front, extra, now)
	if err := r.auctions.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save auction: %w", err)
	}
	r.log.InfoContext(ctx, "auction created", "auction_id", a.ID, "seller_id", a.SellerID, "end_time", a.EndTime)
	return a, nil
}

// Get returns the auction without images.
func (r *AuctionRegistry) Get(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return r.auctions.GetByID(ctx, id)
}

// GetWithImages returns the auction with its front and additional images.
func (r *AuctionRegistry) GetWithImages(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	a, err := r.auctions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := r.auctions.GetImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	for i := range images {
		if images[i].IsFront {
			img := images[i]
			a.FrontImage = &img
			continue
		}
		a.AdditionalImages = append(a.AdditionalImages, images[i])
	}
	return a, nil
}

// RecordView increments the view counter.
func (r *AuctionRegistry) RecordView(ctx context.Context, id uuid.UUID) error {
	return r.auctions.IncrementViews(ctx, id)
}

// Update applies patch while holding the auction lock, so it cannot race the
// first bid. Auctions with bids are frozen.
func (r *AuctionRegistry) Update(ctx context.Context, id uuid.UUID, patch models.AuctionPatch, actor auth.Actor) (*models.Auction, error) {
	var updated *models.Auction
	err := r.auctions.WithLock(ctx, id, func(ctx context.Context, a *models.Auction) error {
		if err := authorize(a, actor); err != nil {
			return err
		}
		if a.HasBids() {
			return domain.ErrAuctionHasBids
		}
		now := r.now()
		if err := domainsvcs.ValidatePatch(a, patch, now); err != nil {
			return err
		}
		a.Apply(patch, now)
		if err := r.auctions.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Close ends the auction now. Closing a closed auction returns it unchanged
// and enqueues nothing.
func (r *AuctionRegistry) Close(ctx context.Context, id uuid.UUID, actor auth.Actor) (*models.Auction, error) {
	ctx, span := tracer.Start(ctx, "AuctionRegistry.Close")
	defer span.End()
	span.SetAttributes(attribute.String("auction.id", id.String()))

	var (
		result       *models.Auction
		transitioned bool
	)
	err := r.auctions.WithLock(ctx, id, func(ctx context.Context, a *models.Auction) error {
		if err := authorize(a, actor); err != nil {
			return err
		}
		if !a.IsOpen() {
			result = a
			return nil
		}

		now := r.now().UTC()
		ok, err := r.auctions.MarkClosed(ctx, id, now)
		if err != nil {
			return err
		}
		if !ok {
			result = a
			return nil
		}
		a.Status = models.StatusClosed
		a.EndTime = now
		a.ClosedAt = &now
		a.UpdatedAt = now
		if err := r.enqueueClosed(ctx, a, domainevents.TriggerExplicit, now); err != nil {
			return err
		}
		result = a
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		r.metrics.AddClosed(string(domainevents.TriggerExplicit), 1)
		r.log.InfoContext(ctx, "auction closed", "auction_id", id, "trigger", domainevents.TriggerExplicit)
	}
	return result, nil
}

// Delete removes an auction that has no bids, together with its images.
func (r *AuctionRegistry) Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	err := r.auctions.WithLock(ctx, id, func(ctx context.Context, a *models.Auction) error {
		if err := authorize(a, actor); err != nil {
			return err
		}
		if a.HasBids() {
			return domain.ErrAuctionHasBids
		}
		return r.auctions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	r.log.InfoContext(ctx, "auction deleted", "auction_id", id)
	return nil
}

// RecordHighestBid overwrites the auction's cached highest bid. Only BidLedger
// calls it, inside the auction lock.
func (r *AuctionRegistry) RecordHighestBid(ctx context.Context, id, bidID uuid.UUID, amount decimal.Decimal) error {
	return r.auctions.RecordHighestBid(ctx, id, bidID, amount, r.now())
}

// SweepExpired closes every open auction whose end time is at or before now,
// in one transaction, and enqueues one closure event per transition.
func (r *AuctionRegistry) SweepExpired(ctx context.Context, now time.Time) ([]*models.Auction, error) {
	ctx, span := tracer.Start(ctx, "AuctionRegistry.SweepExpired")
	defer span.End()
	start := time.Now()
	defer r.metrics.ObserveSweep(start)

	var closed []*models.Auction
	err := r.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		closed, err = r.auctions.CloseExpired(ctx, now)
		if err != nil {
			return err
		}
		for _, a := range closed {
			if err := r.enqueueClosed(ctx, a, domainevents.TriggerExpired, now); err != nil {
				return fmt.Errorf("auction %s: %w", a.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("auction.closed_count", len(closed)))
	if len(closed) > 0 {
		r.metrics.AddClosed(string(domainevents.TriggerExpired), len(closed))
		r.log.InfoContext(ctx, "expired auctions closed", "count", len(closed))
	}
	return closed, nil
}

// List returns auctions matching f.
func (r *AuctionRegistry) List(ctx context.Context, f repositories.AuctionFilter, page models.PageRequest) (*models.Page[*models.Auction], error) {
	if f.ActiveOnly && f.Now.IsZero() {
		f.Now = r.now()
	}
	items, total, err := r.auctions.Find(ctx, f, queryOpts(page))
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return models.NewPage(items, total, page), nil
}

// ListActive returns open auctions whose end time is still ahead.
func (r *AuctionRegistry) ListActive(ctx context.Context, page models.PageRequest) (*models.Page[*models.Auction], error) {
	return r.List(ctx, repositories.AuctionFilter{ActiveOnly: true}, page)
}

// ListBySeller returns every auction of one seller.
func (r *AuctionRegistry) ListBySeller(ctx context.Context, sellerID uuid.UUID, page models.PageRequest) (*models.Page[*models.Auction], error) {
	return r.List(ctx, repositories.AuctionFilter{SellerID: &sellerID}, page)
}

// enqueueClosed computes the winner and participants from the bids visible in
// the closing transaction and enqueues the closure event.
func (r *AuctionRegistry) enqueueClosed(ctx context.Context, a *models.Auction, trigger domainevents.CloseTrigger, now time.Time) error {
	top, err := r.bids.Highest(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("load winner: %w", err)
	}
	participants, err := r.bids.DistinctBidders(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	if participants == nil {
		participants = []uuid.UUID{}
	}

	evt := domainevents.AuctionClosedEvent{
		EventID:      uuid.New(),
		Version:      domainevents.Version,
		AuctionID:    a.ID,
		AuctionTitle: a.Title,
		SellerID:     a.SellerID,
		Participants: participants,
		Trigger:      trigger,
		OccurredAt:   now.UTC(),
	}
	if top != nil {
		winner, amount := top.BidderID, top.Amount
		evt.WinnerID = &winner
		evt.WinningAmount = &amount
	}
	if err := r.outbox.Enqueue(ctx, domainevents.TopicAuctionClosed, evt.EventID, evt); err != nil {
		return fmt.Errorf("enqueue auction closed: %w", err)
	}
	return nil
}

func authorize(a *models.Auction, actor auth.Actor) error {
	if actor.UserID == a.SellerID || actor.IsAdmin() {
		return nil
	}
	return domain.ErrNotAuctionOwner
}
