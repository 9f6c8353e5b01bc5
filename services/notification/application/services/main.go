// Package services contains the application services of the notification
// module: the Dispatcher fed by auction events and the user-facing Inbox.
package services

import (
	"time"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/metrics"
	"github.com/ghuser/auctionhouse/services/notification/infrastructure/persistence/postgres"
)

// Services is the notification module's application-layer container.
type Services struct {
	Dispatcher *Dispatcher
	Inbox      *Inbox
}

// New wires the notification services with PostgreSQL and the live push bus.
// Metrics are only registered when the Application carries a registry.
func New(a *app.Application) *Services {
	repo := postgres.NewNotificationRepository(a.Db)

	timeout := 5 * time.Second
	if a.Config != nil && a.Config.DependencyTimeout > 0 {
		timeout = a.Config.DependencyTimeout
	}

	return &Services{
		Dispatcher: NewDispatcher(repo, a.Realtime, metrics.New(a.Metrics), a.Logger, timeout),
		Inbox:      NewInbox(repo, a.Logger),
	}
}
