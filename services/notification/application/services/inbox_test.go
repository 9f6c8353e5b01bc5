package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
)

func seed(t *testing.T, f *fixture, recipient uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, n)
	for range n {
		note := models.NewNotification(uuid.New(), uuid.New(), models.Draft{RecipientID: recipient, Kind: models.KindOutbid, Message: "m"}, fixedNow)
		if _, err := f.repo.Insert(context.Background(), note); err != nil {
			t.Fatalf("seed: %v", err)
		}
		ids = append(ids, note.ID)
	}
	return ids
}

func TestInbox_ReadFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := uuid.New()
	ids := seed(t, f, me, 3)

	n, err := f.inbox.MarkRead(ctx, me, ids[0])
	if err != nil || !n.IsRead {
		t.Fatalf("mark read: %+v %v", n, err)
	}
	if c, _ := f.inbox.CountUnread(ctx, me); c != 2 {
		t.Fatalf("expected 2 unread, got %d", c)
	}
	unread, err := f.inbox.ListUnread(ctx, me, models.PageRequest{Size: 10})
	if err != nil || unread.Total != 2 {
		t.Fatalf("list unread: %+v %v", unread, err)
	}

	changed, err := f.inbox.MarkAllRead(ctx, me)
	if err != nil || changed != 2 {
		t.Fatalf("mark all read: %d %v", changed, err)
	}
	if c, _ := f.inbox.CountUnread(ctx, me); c != 0 {
		t.Fatalf("expected 0 unread, got %d", c)
	}
}

func TestInbox_EmptyPageHasItems(t *testing.T) {
	f := newFixture(t)
	p, err := f.inbox.List(context.Background(), uuid.New(), models.PageRequest{Size: 20})
	if err != nil || p.Items == nil || p.Total != 0 {
		t.Fatalf("expected empty non-nil page, got %+v %v", p, err)
	}
}

func TestInbox_OwnershipAndNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	id := seed(t, f, owner, 1)[0]

	tests := []struct {
		name string
		call func() error
		kind error
	}{
		{"mark read someone else's", func() error { _, err := f.inbox.MarkRead(ctx, stranger, id); return err }, apperr.ErrForbidden},
		{"delete someone else's", func() error { return f.inbox.Delete(ctx, stranger, id) }, apperr.ErrForbidden},
		{"mark read missing", func() error { _, err := f.inbox.MarkRead(ctx, owner, uuid.New()); return err }, apperr.ErrNotFound},
		{"delete missing", func() error { return f.inbox.Delete(ctx, owner, uuid.New()) }, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}

	if err := f.inbox.Delete(ctx, owner, id); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if c, _ := f.inbox.CountUnread(ctx, owner); c != 0 {
		t.Fatalf("expected no notifications after delete, got %d", c)
	}
}
