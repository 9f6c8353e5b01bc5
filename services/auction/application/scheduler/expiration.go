// Package scheduler drives the autonomous OPEN to CLOSED transition of
// auctions whose end time has passed.
package scheduler

import (
	"context"
	"time"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// Sweeper closes every open auction due at now. AuctionRegistry implements it.
type Sweeper interface {
	SweepExpired(ctx context.Context, now time.Time) ([]*models.Auction, error)
}

// Expiration runs a sweep on a fixed interval. Sweeps run on the ticker
// goroutine, so a slow sweep delays the next one instead of overlapping it.
type Expiration struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
	log      logger.Logger
	now      func() time.Time
}

// NewExpiration returns a scheduler sweeping every interval, each sweep
// bounded by timeout.
func NewExpiration(s Sweeper, interval, timeout time.Duration, log logger.Logger) *Expiration {
	return &Expiration{
		sweeper:  s,
		interval: interval,
		timeout:  timeout,
		log:      log.With("component", "expiration_scheduler"),
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (e *Expiration) Run(ctx context.Context) error {
	e.log.Info("expiration scheduler started", "interval", e.interval)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.SweepOnce(ctx) //nolint:errcheck
	for {
		select {
		case <-ctx.Done():
			e.log.Info("expiration scheduler stopped")
			return nil
		case <-ticker.C:
			e.SweepOnce(ctx) //nolint:errcheck
		}
	}
}

// SweepOnce runs one bounded sweep and returns how many auctions it closed.
// Failures are logged; the next tick retries.
func (e *Expiration) SweepOnce(ctx context.Context) (int, error) {
	sctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	closed, err := e.sweeper.SweepExpired(sctx, e.now())
	if err != nil {
		e.log.ErrorContext(ctx, "expiration sweep failed", "error", err)
		return 0, err
	}
	if len(closed) > 0 {
		e.log.InfoContext(ctx, "expiration sweep closed auctions", "count", len(closed))
	}
	return len(closed), nil
}
