package handlers

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// CreateAuctionRequest is the request body for POST /auctions.
// Images are base64 strings, optionally prefixed with data:<type>;base64,.
type CreateAuctionRequest struct {
	Title            string          `json:"title"             validate:"max=255"  example:"Omega Seamaster 1968"`
	Description      string          `json:"description"       validate:"max=5000" example:"Serviced in 2024, original box"`
	StartingPrice    decimal.Decimal `json:"starting_price"    swaggertype:"string" example:"150.00"`
	StartTime        time.Time       `json:"start_time"        example:"2026-06-01T10:00:00Z"`
	EndTime          time.Time       `json:"end_time"          example:"2026-06-08T10:00:00Z"`
	Category         string          `json:"category"          validate:"max=100"  example:"watches"`
	Brand            string          `json:"brand"             validate:"max=100"  example:"Omega"`
	FrontImage       string          `json:"front_image"`
	AdditionalImages []string        `json:"additional_images" validate:"max=10"`
} // @name CreateAuctionRequest

func (r *CreateAuctionRequest) draft() models.AuctionDraft {
	return models.AuctionDraft{
		Title:            r.Title,
		Description:      r.Description,
		StartingPrice:    r.StartingPrice,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Category:         r.Category,
		Brand:            r.Brand,
		FrontImage:       r.FrontImage,
		AdditionalImages: r.AdditionalImages,
	}
}

// UpdateAuctionRequest is the request body for PUT /auctions/{id}.
// Omitted end_time, category and brand keep their current values.
type UpdateAuctionRequest struct {
	Title       string     `json:"title"       validate:"max=255"  example:"Omega Seamaster 1968"`
	Description string     `json:"description" validate:"max=5000" example:"Now with papers"`
	EndTime     *time.Time `json:"end_time"    example:"2026-06-10T10:00:00Z"`
	Category    *string    `json:"category"    validate:"omitempty,max=100"`
	Brand       *string    `json:"brand"       validate:"omitempty,max=100"`
} // @name UpdateAuctionRequest

func (r *UpdateAuctionRequest) patch() models.AuctionPatch {
	return models.AuctionPatch{
		Title:       r.Title,
		Description: r.Description,
		EndTime:     r.EndTime,
		Category:    r.Category,
		Brand:       r.Brand,
	}
}

// PlaceBidRequest is the request body for POST /auctions/{id}/bids.
type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"175.50"`
} // @name PlaceBidRequest

// ImageResponse carries an image as a data URL.
type ImageResponse struct {
	Position int    `json:"position" example:"0"`
	DataURL  string `json:"data_url" example:"data:image/png;base64,iVBORw0KGgo="`
} // @name ImageResponse

// AuctionResponse is the JSON representation of an auction.
type AuctionResponse struct {
	ID                uuid.UUID       `json:"id"                  example:"123e4567-e89b-12d3-a456-426614174000"`
	Title             string          `json:"title"               example:"Omega Seamaster 1968"`
	Description       string          `json:"description"`
	StartingPrice     decimal.Decimal `json:"starting_price"      swaggertype:"string" example:"150.00"`
	CurrentHighestBid decimal.Decimal `json:"current_highest_bid" swaggertype:"string" example:"175.50"`
	HighestBidID      *uuid.UUID      `json:"highest_bid_id,omitempty"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           time.Time       `json:"end_time"`
	SellerID          uuid.UUID       `json:"seller_id"`
	Status            models.Status   `json:"status"              swaggertype:"string" enums:"open,closed"`
	Views             int64           `json:"views"               example:"42"`
	Category          string          `json:"category"            example:"watches"`
	Brand             string          `json:"brand"               example:"Omega"`
	FrontImage        *ImageResponse  `json:"front_image,omitempty"`
	AdditionalImages  []ImageResponse `json:"additional_images,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
} // @name AuctionResponse

// BidResponse is the JSON representation of a bid.
type BidResponse struct {
	ID        uuid.UUID       `json:"id"`
	AuctionID uuid.UUID       `json:"auction_id"`
	BidderID  uuid.UUID       `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"    swaggertype:"string" example:"175.50"`
	PlacedAt  time.Time       `json:"placed_at"`
} // @name BidResponse

// AuctionPageResponse is one page of auctions.
type AuctionPageResponse struct {
	Items []AuctionResponse `json:"items"`
	Total int               `json:"total"  example:"57"`
	Page  int               `json:"page"   example:"0"`
	Size  int               `json:"size"   example:"20"`
} // @name AuctionPageResponse

// BidPageResponse is one page of bids.
type BidPageResponse struct {
	Items []BidResponse `json:"items"`
	Total int           `json:"total" example:"3"`
	Page  int           `json:"page"  example:"0"`
	Size  int           `json:"size"  example:"20"`
} // @name BidPageResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"Bid amount must be higher than the current highest bid"`
} // @name ErrorResponse

func toAuctionResponse(a *models.Auction) AuctionResponse {
	resp := AuctionResponse{
		ID:                a.ID,
		Title:             a.Title,
		Description:       a.Description,
		StartingPrice:     a.StartingPrice,
		CurrentHighestBid: a.CurrentHighestBid,
		HighestBidID:      a.HighestBidID,
		StartTime:         a.StartTime,
		EndTime:           a.EndTime,
		SellerID:          a.SellerID,
		Status:            a.Status,
		Views:             a.Views,
		Category:          a.Category,
		Brand:             a.Brand,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		ClosedAt:          a.ClosedAt,
	}
	if a.FrontImage != nil {
		img := toImageResponse(*a.FrontImage)
		resp.FrontImage = &img
	}
	for _, img := range a.AdditionalImages {
		resp.AdditionalImages = append(resp.AdditionalImages, toImageResponse(img))
	}
	return resp
}

func toImageResponse(img models.Image) ImageResponse {
	return ImageResponse{
		Position: img.Position,
		DataURL:  "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
	}
}

func toBidResponse(b *models.Bid) BidResponse {
	return BidResponse{ID: b.ID, AuctionID: b.AuctionID, BidderID: b.BidderID, Amount: b.Amount, PlacedAt: b.PlacedAt}
}

func toAuctionPage(p *models.Page[*models.Auction]) AuctionPageResponse {
	items := make([]AuctionResponse, len(p.Items))
	for i, a := range p.Items {
		items[i] = toAuctionResponse(a)
	}
	return AuctionPageResponse{Items: items, Total: p.Total, Page: p.Number, Size: p.Size}
}

func toBidPage(p *models.Page[*models.Bid]) BidPageResponse {
	items := make([]BidResponse, len(p.Items))
	for i, b := range p.Items {
		items[i] = toBidResponse(b)
	}
	return BidPageResponse{Items: items, Total: p.Total, Page: p.Number, Size: p.Size}
}

func pageRequest(p httpx.Page) models.PageRequest {
	return models.PageRequest{Number: p.Number, Size: p.Size}
}
