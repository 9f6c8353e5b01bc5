package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/notification/domain"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
	"github.com/ghuser/auctionhouse/services/notification/domain/repositories"
)

// Inbox serves a user's own notifications.
type Inbox struct {
	repo repositories.NotificationRepository
	log  logger.Logger
}

// NewInbox wires an Inbox over the notification repository.
func NewInbox(repo repositories.NotificationRepository, log logger.Logger) *Inbox {
	return &Inbox{repo: repo, log: log.With("component", "notification_inbox")}
}

// List returns the recipient's notifications, newest first.
func (i *Inbox) List(ctx context.Context, recipientID uuid.UUID, page models.PageRequest) (*models.Page, error) {
	return i.list(ctx, recipientID, false, page)
}

// ListUnread is List restricted to unread notifications.
func (i *Inbox) ListUnread(ctx context.Context, recipientID uuid.UUID, page models.PageRequest) (*models.Page, error) {
	return i.list(ctx, recipientID, true, page)
}

func (i *Inbox) list(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, page models.PageRequest) (*models.Page, error) {
	items, total, err := i.repo.List(ctx, recipientID, unreadOnly, repositories.QueryOpts{Limit: page.Size, Offset: page.Offset()})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []*models.Notification{}
	}
	return &models.Page{Items: items, Total: total, Number: page.Number, Size: page.Size}, nil
}

// CountUnread returns how many of the recipient's notifications are unread.
func (i *Inbox) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return i.repo.CountUnread(ctx, recipientID)
}

// MarkRead marks one of the recipient's notifications as read.
func (i *Inbox) MarkRead(ctx context.Context, recipientID, id uuid.UUID) (*models.Notification, error) {
	n, err := i.owned(ctx, recipientID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		if err := i.repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		n.IsRead = true
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the recipient and returns how many changed.
func (i *Inbox) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	n, err := i.repo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	i.log.DebugContext(ctx, "notifications marked read", "recipient_id", recipientID, "count", n)
	return n, nil
}

// Delete removes one of the recipient's notifications.
func (i *Inbox) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	if _, err := i.owned(ctx, recipientID, id); err != nil {
		return err
	}
	return i.repo.Delete(ctx, id)
}

func (i *Inbox) owned(ctx context.Context, recipientID, id uuid.UUID) (*models.Notification, error) {
	n, err := i.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, domain.ErrNotRecipient
	}
	return n, nil
}
