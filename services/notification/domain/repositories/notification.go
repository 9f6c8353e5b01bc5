package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/notification/domain/models"
)

type QueryOpts struct {
	Limit  int
	Offset int
}

// NotificationRepository stores inbox entries.
type NotificationRepository interface {
	// Insert stores n unless a notification with the same event, recipient
	// and kind exists. It reports whether a row was written.
	Insert(ctx context.Context, n *models.Notification) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	// List returns the recipient's notifications, newest first.
	List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, opts QueryOpts) ([]*models.Notification, int, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
