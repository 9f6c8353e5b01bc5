// Package memory is an in-process NotificationRepository used by tests and
// by the API when no database is configured.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/notification/domain"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
	"github.com/ghuser/auctionhouse/services/notification/domain/repositories"
)

type dedupKey struct {
	eventID   uuid.UUID
	recipient uuid.UUID
	kind      models.Kind
}

// NotificationRepository keeps notifications in maps guarded by one mutex.
type NotificationRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*models.Notification
	dedup map[dedupKey]struct{}
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		byID:  make(map[uuid.UUID]*models.Notification),
		dedup: make(map[dedupKey]struct{}),
	}
}

func (r *NotificationRepository) Insert(_ context.Context, n *models.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dedupKey{eventID: n.EventID, recipient: n.RecipientID, kind: n.Kind}
	if _, ok := r.dedup[key]; ok {
		return false, nil
	}
	r.dedup[key] = struct{}{}
	c := *n
	r.byID[n.ID] = &c
	return true, nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	c := *n
	return &c, nil
}

func (r *NotificationRepository) List(_ context.Context, recipientID uuid.UUID, unreadOnly bool, opts repositories.QueryOpts) ([]*models.Notification, int, error) {
	r.mu.RLock()
	var all []*models.Notification
	for _, n := range r.byID {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		c := *n
		all = append(all, &c)
	}
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b *models.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	total := len(all)
	if opts.Offset >= total {
		return []*models.Notification{}, total, nil
	}
	end := min(opts.Offset+opts.Limit, total)
	return all[opts.Offset:end], total, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.byID {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, recipientID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.byID {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	delete(r.dedup, dedupKey{eventID: n.EventID, recipient: n.RecipientID, kind: n.Kind})
	delete(r.byID, id)
	return nil
}
