package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/services/notification/application/handlers"
	appsvcs "github.com/ghuser/auctionhouse/services/notification/application/services"
)

// NotificationRoutes registers the inbox and stream endpoints on the provided chi router.
func NotificationRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a)
}

// Mount registers the routes against an already wired service container.
func Mount(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	h := handlers.NewNotificationHandler(svcs, a.Hub, a.Logger)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Tokens, a.Logger))
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.List)
			r.Get("/unread", h.Unread)
			r.Get("/unread/count", h.UnreadCount)
			r.Get("/stream", h.Stream)
			r.Post("/read-all", h.MarkAllRead)
			r.Post("/{id}/read", h.MarkRead)
			r.Delete("/{id}", h.Delete)
		})
	})
}
