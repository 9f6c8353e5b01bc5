package handlers

import (
	"net/http"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// BidHandler serves bid placement and bid queries.
type BidHandler struct {
	svc *appsvcs.Services
}

// NewBidHandler returns a BidHandler backed by the given services.
func NewBidHandler(svc *appsvcs.Services) *BidHandler {
	return &BidHandler{svc: svc}
}

// Place places a bid for the caller.
//
//	@Summary		Place bid
//	@Description	Accepts the bid if the auction is open, the caller is not the seller and the amount beats the current highest bid.
//	@Tags			bids
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Auction ID"	format(uuid)
//	@Param			request	body		PlaceBidRequest	true	"Bid"
//	@Success		201		{object}	BidResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/auctions/{id}/bids [post]
func (h *BidHandler) Place(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	auctionID, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[PlaceBidRequest](w, r)
	if !ok {
		return
	}

	bid, err := h.svc.Ledger.PlaceBid(r.Context(), auctionID, actor.UserID, req.Amount)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBidResponse(bid))
}

// ForAuction lists an auction's bids, highest first.
//
//	@Summary	List bids for auction
//	@Tags		bids
//	@Produce	json
//	@Param		id		path		string	true	"Auction ID"	format(uuid)
//	@Param		page	query		int		false	"Page number (0-based)"
//	@Param		size	query		int		false	"Page size (1-100)"
//	@Success	200		{object}	BidPageResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/auctions/{id}/bids [get]
func (h *BidHandler) ForAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	res, err := h.svc.Ledger.BidsFor(r.Context(), auctionID, pageRequest(page))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBidPage(res))
}

// Highest returns the leading bid, or 204 when the auction has none.
//
//	@Summary	Get highest bid
//	@Tags		bids
//	@Produce	json
//	@Param		id	path		string	true	"Auction ID"	format(uuid)
//	@Success	200	{object}	BidResponse
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/auctions/{id}/bids/highest [get]
func (h *BidHandler) Highest(w http.ResponseWriter, r *http.Request) {
	auctionID, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	bid, err := h.svc.Ledger.HighestBid(r.Context(), auctionID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if bid == nil {
		httpx.NoContent(w)
		return
	}
	httpx.JSON(w, http.StatusOK, toBidResponse(bid))
}

// Mine lists the caller's bids, newest first.
//
//	@Summary	List my bids
//	@Tags		bids
//	@Produce	json
//	@Param		page	query		int	false	"Page number (0-based)"
//	@Param		size	query		int	false	"Page size (1-100)"
//	@Success	200		{object}	BidPageResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/bids/me [get]
func (h *BidHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	res, err := h.svc.Ledger.BidsBy(r.Context(), actor.UserID, pageRequest(page))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBidPage(res))
}

// MineLeading lists the caller's best bid on each auction they bid on.
//
//	@Summary	List my best bid per auction
//	@Tags		bids
//	@Produce	json
//	@Param		page	query		int	false	"Page number (0-based)"
//	@Param		size	query		int	false	"Page size (1-100)"
//	@Success	200		{object}	BidPageResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/bids/me/leading [get]
func (h *BidHandler) MineLeading(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	res, err := h.svc.Ledger.LeadingBidsBy(r.Context(), actor.UserID, pageRequest(page))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBidPage(res))
}
