// Package services contains stateless domain services for the auction bounded
// context: input validation, image decoding and the bid acceptance policy.
// They operate purely on domain types and take the current time as an argument.
package services

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// maxScale is the number of decimal places money amounts may carry.
const maxScale = 2

// ValidateDraft checks a new auction against the creation rules and decodes
// its images. The first failing rule is reported.
func ValidateDraft(d models.AuctionDraft, now time.Time) (*models.Image, []models.Image, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, nil, apperr.Validation("Title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return nil, nil, apperr.Validation("Description is required")
	}
	if err := ValidateAmount(d.StartingPrice, "Starting price"); err != nil {
		return nil, nil, err
	}
	if d.StartTime.IsZero() {
		return nil, nil, apperr.Validation("Start time is required")
	}
	if d.EndTime.IsZero() {
		return nil, nil, apperr.Validation("End time is required")
	}
	if d.StartTime.Before(now) {
		return nil, nil, apperr.Validation("Start time cannot be in the past")
	}
	if !d.EndTime.After(d.StartTime) {
		return nil, nil, apperr.Validation("End time must be after start time")
	}

	if strings.TrimSpace(d.FrontImage) == "" {
		return nil, nil, apperr.Validation("Front image is required and must be a valid Base64 encoded string")
	}
	front, err := DecodeImage(d.FrontImage, 0)
	if err != nil {
		return nil, nil, apperr.Validation("Invalid front image format. Must be Base64 encoded")
	}
	front.IsFront = true

	extra := make([]models.Image, 0, len(d.AdditionalImages))
	for i, raw := range d.AdditionalImages {
		if strings.TrimSpace(raw) == "" {
			return nil, nil, apperr.Validation("Each additional image must be a valid Base64 encoded string")
		}
		img, err := DecodeImage(raw, i+1)
		if err != nil {
			return nil, nil, apperr.Validation("Invalid additional image format. Must be Base64 encoded")
		}
		extra = append(extra, *img)
	}
	return front, extra, nil
}

// ValidatePatch checks an update against the auction it applies to.
func ValidatePatch(a *models.Auction, p models.AuctionPatch, now time.Time) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperr.Validation("Title is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return apperr.Validation("Description is required")
	}
	if p.EndTime == nil {
		return nil
	}
	if !p.EndTime.After(a.StartTime) {
		return apperr.Validation("End time must be after start time")
	}
	if !p.EndTime.After(now) {
		return apperr.Validation("End time must be in the future")
	}
	return nil
}

// ValidateAmount requires a positive amount with at most two decimal places.
func ValidateAmount(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return apperr.Validation(field + " must be greater than 0")
	}
	if !amount.Equal(amount.Truncate(maxScale)) {
		return apperr.Validation(field + " must have at most two decimal places")
	}
	return nil
}

// DecodeImage decodes a base64 payload, accepting an optional
// "data:<type>;base64," prefix. Without a prefix the type is sniffed.
func DecodeImage(raw string, position int) (*models.Image, error) {
	contentType := ""
	payload := strings.TrimSpace(raw)
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, apperr.Validation("malformed data URL")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Validation("image is not valid base64")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("image is empty")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &models.Image{
		ID:          uuid.New(),
		Position:    position,
		ContentType: contentType,
		Data:        data,
	}, nil
}
