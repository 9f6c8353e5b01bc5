package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

type fakeSweeper struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	overlap  atomic.Bool
	delay    time.Duration
	err      error
	closed   int
}

func (s *fakeSweeper) SweepExpired(ctx context.Context, _ time.Time) ([]*models.Auction, error) {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.inFlight.Add(-1)
	s.calls.Add(1)

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.Auction, s.closed)
	for i := range out {
		out[i] = &models.Auction{ID: uuid.New()}
	}
	return out, nil
}

func TestSweepOnce_ReturnsClosedCount(t *testing.T) {
	s := &fakeSweeper{closed: 3}
	e := NewExpiration(s, time.Minute, time.Second, logger.Nop())

	n, err := e.SweepOnce(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("got %d, %v", n, err)
	}
}

func TestSweepOnce_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	e := NewExpiration(&fakeSweeper{err: boom}, time.Minute, time.Second, logger.Nop())
	if _, err := e.SweepOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSweepOnce_BoundedByTimeout(t *testing.T) {
	e := NewExpiration(&fakeSweeper{delay: time.Second}, time.Minute, 10*time.Millisecond, logger.Nop())
	start := time.Now()
	if _, err := e.SweepOnce(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("sweep was not cut off by the timeout")
	}
}

func TestRun_SweepsRepeatedlyWithoutOverlap(t *testing.T) {
	s := &fakeSweeper{delay: 15 * time.Millisecond}
	e := NewExpiration(s, 5*time.Millisecond, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	if s.calls.Load() < 3 {
		t.Fatalf("expected at least 3 sweeps, got %d", s.calls.Load())
	}
	if s.overlap.Load() {
		t.Fatal("sweeps overlapped")
	}
}
