package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/httpx"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		want    httpx.Page
		wantErr bool
	}{
		{"", httpx.Page{Number: 0, Size: 20}, false},
		{"?page=2&size=5", httpx.Page{Number: 2, Size: 5}, false},
		{"?size=100", httpx.Page{Number: 0, Size: 100}, false},
		{"?page=-1", httpx.Page{}, true},
		{"?size=0", httpx.Page{}, true},
		{"?size=101", httpx.Page{}, true},
		{"?page=abc", httpx.Page{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := httpx.ParsePage(httptest.NewRequest(http.MethodGet, "/auctions"+tt.query, http.NoBody))
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPage_Offset(t *testing.T) {
	if got := (httpx.Page{Number: 3, Size: 20}).Offset(); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	rctx.URLParams.Add("bad", "nope")
	r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	got, err := httpx.URLParamUUID(r, "id")
	if err != nil || got != id {
		t.Fatalf("expected %v, got %v (err %v)", id, got, err)
	}
	if _, err := httpx.URLParamUUID(r, "bad"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
