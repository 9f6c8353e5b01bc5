// Package handlers exposes the auction module over HTTP.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

// AuctionHandler serves the /auctions endpoints.
type AuctionHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewAuctionHandler returns an AuctionHandler backed by the given services.
func NewAuctionHandler(svc *appsvcs.Services, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{svc: svc, log: log.With("component", "auction_handler")}
}

// Create creates a new auction owned by the caller.
//
//	@Summary		Create auction
//	@Description	Creates an open auction. The front image is required.
//	@Tags			auctions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateAuctionRequest	true	"Auction"
//	@Success		201		{object}	AuctionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/auctions [post]
func (h *AuctionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CreateAuctionRequest](w, r)
	if !ok {
		return
	}

	a, err := h.svc.Registry.Create(r.Context(), actor, req.draft())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAuctionResponse(a))
}

// Get returns an auction with its images and counts the view.
//
//	@Summary	Get auction
//	@Tags		auctions
//	@Produce	json
//	@Param		id	path		string	true	"Auction ID"	format(uuid)
//	@Success	200	{object}	AuctionResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/auctions/{id} [get]
func (h *AuctionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, true)
}

// Summary returns an auction without images and counts the view.
//
//	@Summary	Get auction without images
//	@Tags		auctions
//	@Produce	json
//	@Param		id	path		string	true	"Auction ID"	format(uuid)
//	@Success	200	{object}	AuctionResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/auctions/{id}/summary [get]
func (h *AuctionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, false)
}

func (h *AuctionHandler) get(w http.ResponseWriter, r *http.Request, withImages bool) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	load := h.svc.Registry.Get
	if withImages {
		load = h.svc.Registry.GetWithImages
	}
	a, err := load(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if err := h.svc.Registry.RecordView(r.Context(), id); err != nil {
		h.log.WarnContext(r.Context(), "failed to record view", "auction_id", id, "error", err)
	} else {
		a.Views++
	}
	httpx.JSON(w, http.StatusOK, toAuctionResponse(a))
}

// List returns auctions matching the optional filters, newest first.
//
//	@Summary	List auctions
//	@Tags		auctions
//	@Produce	json
//	@Param		title		query		string	false	"Title contains (case-insensitive)"
//	@Param		category	query		string	false	"Category"
//	@Param		brand		query		string	false	"Brand"
//	@Param		min_price	query		string	false	"Minimum starting price"
//	@Param		max_price	query		string	false	"Maximum starting price"
//	@Param		seller_id	query		string	false	"Seller ID"	format(uuid)
//	@Param		active		query		bool	false	"Only auctions still accepting bids"
//	@Param		page		query		int		false	"Page number (0-based)"
//	@Param		size		query		int		false	"Page size (1-100)"
//	@Success	200			{object}	AuctionPageResponse
//	@Failure	422			{object}	ErrorResponse
//	@Router		/auctions [get]
func (h *AuctionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	res, err := h.svc.Registry.List(r.Context(), f, pageRequest(page))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuctionPage(res))
}

// Active returns open auctions whose end time has not passed.
//
//	@Summary	List active auctions
//	@Tags		auctions
//	@Produce	json
//	@Param		page	query		int	false	"Page number (0-based)"
//	@Param		size	query		int	false	"Page size (1-100)"
//	@Success	200		{object}	AuctionPageResponse
//	@Router		/auctions/active [get]
func (h *AuctionHandler) Active(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	res, err := h.svc.Registry.ListActive(r.Context(), pageRequest(page))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuctionPage(res))
}

// BySeller returns the auctions created by a seller.
//
//	@Summary	List auctions by seller
//	@Tags		auctions
//	@Produce	json
//	@Param		sellerID	path		string	true	"Seller ID"	format(uuid)
//	@Param		page		query		int		false	"Page number (0-based)"
//	@Param		size		query		int		false	"Page size (1-100)"
//	@Success	200			{object}	AuctionPageResponse
//	@Router		/auctions/seller/{sellerID} [get]
func (h *AuctionHandler) BySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, err := httpx.URLParamUUID(r, "sellerID")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	res, err := h.svc.Registry.ListBySeller(r.Context(), sellerID, pageRequest(page))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuctionPage(res))
}

// Update edits an auction that has no bids yet.
//
//	@Summary	Update auction
//	@Tags		auctions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Auction ID"	format(uuid)
//	@Param		request	body		UpdateAuctionRequest	true	"Changes"
//	@Success	200		{object}	AuctionResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/auctions/{id} [put]
func (h *AuctionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateAuctionRequest](w, r)
	if !ok {
		return
	}

	a, err := h.svc.Registry.Update(r.Context(), id, req.patch(), actor)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuctionResponse(a))
}

// Delete removes an auction that has no bids.
//
//	@Summary	Delete auction
//	@Tags		auctions
//	@Param		id	path	string	true	"Auction ID"	format(uuid)
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/auctions/{id} [delete]
func (h *AuctionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.svc.Registry.Delete(r.Context(), id, actor); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}

// Close ends an auction before its end time. Closing a closed auction is a no-op.
//
//	@Summary	Close auction
//	@Tags		auctions
//	@Produce	json
//	@Param		id	path		string	true	"Auction ID"	format(uuid)
//	@Success	200	{object}	AuctionResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/auctions/{id}/close [post]
func (h *AuctionHandler) Close(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	a, err := h.svc.Registry.Close(r.Context(), id, actor)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuctionResponse(a))
}

func parseFilter(r *http.Request) (repositories.AuctionFilter, error) {
	q := r.URL.Query()
	f := repositories.AuctionFilter{
		Title:    q.Get("title"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}

	var err error
	if f.MinPrice, err = parseDecimal(q.Get("min_price"), "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseDecimal(q.Get("max_price"), "max_price"); err != nil {
		return f, err
	}
	if v := q.Get("seller_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, apperr.Validation("seller_id must be a valid UUID")
		}
		f.SellerID = &id
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperr.Validation("active must be a boolean")
		}
		f.ActiveOnly = active
	}
	return f, nil
}

func parseDecimal(v, name string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, apperr.Validation(name + " must be a number")
	}
	return &d, nil
}
