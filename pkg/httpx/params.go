package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/apperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return p.Number * p.Size }

// ParsePage reads ?page=&size= with defaults 0 and 20.
// A negative page or a size outside 1..100 is a validation error.
func ParsePage(r *http.Request) (Page, error) {
	p := Page{Number: 0, Size: defaultPageSize}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Page{}, apperr.Validation("page must be an integer")
		}
		p.Number = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Page{}, apperr.Validation("size must be an integer")
		}
		p.Size = n
	}
	if p.Number < 0 {
		return Page{}, apperr.Validation("Page number cannot be negative")
	}
	if p.Size <= 0 {
		return Page{}, apperr.Validation("Page size must be greater than 0")
	}
	if p.Size > maxPageSize {
		return Page{}, apperr.Validation("Page size must not exceed 100")
	}
	return p, nil
}

// URLParamUUID parses the chi URL parameter name as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name + " must be a valid UUID")
	}
	return id, nil
}
