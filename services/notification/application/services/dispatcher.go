package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/realtime"
	auctionevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
	"github.com/ghuser/auctionhouse/services/notification/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/notification/domain/services"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/metrics"
)

// Dispatcher turns auction events into stored notifications and live pushes.
// It runs in the worker, after the auction transaction has committed.
type Dispatcher struct {
	repo       repositories.NotificationRepository
	push       realtime.Publisher
	metrics    *metrics.Metrics
	log        logger.Logger
	depTimeout time.Duration // bounds every store write and live push
	now        func() time.Time
}

// NewDispatcher wires a Dispatcher. push may be nil, in which case
// notifications are only stored.
func NewDispatcher(
	repo repositories.NotificationRepository,
	push realtime.Publisher,
	m *metrics.Metrics,
	log logger.Logger,
	depTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		repo:       repo,
		push:       push,
		metrics:    m,
		log:        log.With("component", "notification_dispatcher"),
		depTimeout: depTimeout,
		now:        time.Now,
	}
}

// WithClock replaces the time source.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// OnNewBid notifies the seller and the displaced leader.
func (d *Dispatcher) OnNewBid(ctx context.Context, evt auctionevents.BidPlacedEvent) error {
	return d.deliver(ctx, evt.EventID, evt.AuctionID, domainsvcs.PlanNewBid(evt))
}

// OnAuctionClosed notifies the seller, the winner and the other bidders.
func (d *Dispatcher) OnAuctionClosed(ctx context.Context, evt auctionevents.AuctionClosedEvent) error {
	return d.deliver(ctx, evt.EventID, evt.AuctionID, domainsvcs.PlanClosed(evt))
}

// deliver stores every draft and pushes the ones that were new. Storage errors
// are returned so the bus redelivers; rows already written are skipped then.
func (d *Dispatcher) deliver(ctx context.Context, eventID, auctionID uuid.UUID, drafts []models.Draft) error {
	now := d.now()
	var errs []error
	for _, draft := range drafts {
		n := models.NewNotification(eventID, auctionID, draft, now)
		inserted, err := d.insert(ctx, n)
		if err != nil {
			errs = append(errs, fmt.Errorf("store %s notification for %s: %w", draft.Kind, draft.RecipientID, err))
			continue
		}
		if !inserted {
			d.metrics.IncrementDuplicate()
			d.log.DebugContext(ctx, "notification already delivered",
				"event_id", eventID, "recipient_id", draft.RecipientID, "kind", draft.Kind)
			continue
		}
		d.metrics.IncrementCreated(string(draft.Kind))
		d.pushLive(ctx, n)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) insert(ctx context.Context, n *models.Notification) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.depTimeout)
	defer cancel()
	return d.repo.Insert(ctx, n)
}

func (d *Dispatcher) pushLive(ctx context.Context, n *models.Notification) {
	if d.push == nil {
		return
	}
	msg, err := realtime.NewMessage(realtime.UserChannel(n.RecipientID), realtime.EventNotificationCreated, ToView(n))
	if err == nil {
		pctx, cancel := context.WithTimeout(ctx, d.depTimeout)
		err = d.push.Publish(pctx, msg)
		cancel()
	}
	if err != nil {
		d.metrics.IncrementPushFailure()
		d.log.WarnContext(ctx, "live push failed", "notification_id", n.ID, "recipient_id", n.RecipientID, "error", err)
	}
}
