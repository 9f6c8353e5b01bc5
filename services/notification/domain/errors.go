package domain

import (
	"fmt"

	"github.com/ghuser/auctionhouse/pkg/apperr"
)

var (
	// ErrNotificationNotFound indicates the requested notification does not exist.
	ErrNotificationNotFound = fmt.Errorf("notification %w", apperr.ErrNotFound)

	// ErrNotRecipient indicates the actor does not own the notification.
	ErrNotRecipient = fmt.Errorf("%w: not authorized to modify this notification", apperr.ErrForbidden)
)
