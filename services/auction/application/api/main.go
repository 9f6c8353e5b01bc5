package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/services/auction/application/handlers"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// AuctionRoutes registers auction and bid endpoints on the provided chi router.
func AuctionRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a)
}

// Mount registers the routes against an already wired service container.
// Reads are public; everything that acts on behalf of a user requires auth.
func Mount(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	auctions := handlers.NewAuctionHandler(svcs, a.Logger)
	bids := handlers.NewBidHandler(svcs)

	r.Group(func(r chi.Router) {
		r.Get("/auctions", auctions.List)
		r.Get("/auctions/active", auctions.Active)
		r.Get("/auctions/seller/{sellerID}", auctions.BySeller)
		r.Get("/auctions/{id}", auctions.Get)
		r.Get("/auctions/{id}/summary", auctions.Summary)
		r.Get("/auctions/{id}/bids", bids.ForAuction)
		r.Get("/auctions/{id}/bids/highest", bids.Highest)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Tokens, a.Logger))
		r.Post("/auctions", auctions.Create)
		r.Put("/auctions/{id}", auctions.Update)
		r.Delete("/auctions/{id}", auctions.Delete)
		r.Post("/auctions/{id}/close", auctions.Close)
		r.Post("/auctions/{id}/bids", bids.Place)
		r.Get("/bids/me", bids.Mine)
		r.Get("/bids/me/leading", bids.MineLeading)
	})
}
