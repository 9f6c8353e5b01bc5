package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/realtime"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
	"github.com/ghuser/auctionhouse/services/notification/domain/repositories"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/metrics"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/persistence/memory"
)

var fixedNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type recordingPush struct {
	mu   sync.Mutex
	msgs []realtime.Message
	err  error
}

func (p *recordingPush) Publish(_ context.Context, msg realtime.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPush) views(t *testing.T) map[string]View {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]View, len(p.msgs))
	for _, m := range p.msgs {
		if m.Event != realtime.EventNotificationCreated {
			t.Fatalf("unexpected event %s", m.Event)
		}
		var v View
		if err := json.Unmarshal(m.Data, &v); err != nil {
			t.Fatalf("decode push: %v", err)
		}
		out[m.Channel] = v
	}
	return out
}

// flakyRepo fails the first failures inserts and then delegates.
type flakyRepo struct {
	repositories.NotificationRepository
	mu       sync.Mutex
	failures int
}

func (r *flakyRepo) Insert(ctx context.Context, n *models.Notification) (bool, error) {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return false, errors.New("connection reset")
	}
	r.mu.Unlock()
	return r.NotificationRepository.Insert(ctx, n)
}

// stalledRepo never answers an insert until its context ends.
type stalledRepo struct {
	repositories.NotificationRepository
}

func (stalledRepo) Insert(ctx context.Context, _ *models.Notification) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

type fixture struct {
	repo       *memory.NotificationRepository
	push       *recordingPush
	metrics    *metrics.Metrics
	dispatcher *Dispatcher
	inbox      *Inbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewNotificationRepository()
	push := &recordingPush{}
	m := metrics.New(prometheus.NewRegistry())
	return &fixture{
		repo:       repo,
		push:       push,
		metrics:    m,
		dispatcher: NewDispatcher(repo, push, m, logger.Nop(), time.Second).WithClock(func() time.Time { return fixedNow }),
		inbox:      NewInbox(repo, logger.Nop()),
	}
}

func (f *fixture) all(t *testing.T, recipient uuid.UUID) []*models.Notification {
	t.Helper()
	p, err := f.inbox.List(context.Background(), recipient, models.PageRequest{Size: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return p.Items
}
