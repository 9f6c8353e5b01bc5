package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/auctionhouse/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:      "auctionhouse-test",
		ServiceVersion:   "test",
		Environment:      "testing",
		TraceSampleRatio: 1,
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerServesModuleMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	shutdown, handler, err := Setup(context.Background(), baseConfig(), reg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "auction_bids_placed_total", Help: "test"}).Inc()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{"auction_bids_placed_total 1", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	shutdown, _, err := Setup(context.Background(), baseConfig(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "place-bid")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if carrier.Get("traceparent") == "" {
		t.Fatal("traceparent not injected; outbox messages would lose the trace")
	}
}

func TestReportFault_WithoutSentryIsNoop(t *testing.T) {
	ReportFault(context.Background(), errors.New("highest bid mismatch"), map[string]string{"auction_id": "x"})
}

func TestSetupSentry_EmptyDSN(t *testing.T) {
	if err := SetupSentry(baseConfig()); err != nil {
		t.Fatalf("expected nil for empty DSN, got %v", err)
	}
}

func TestDropCancellations(t *testing.T) {
	event := &sentry.Event{Message: "bid failed"}
	tests := []struct {
		name string
		hint *sentry.EventHint
		keep bool
	}{
		{"no hint", nil, true},
		{"dependency error", &sentry.EventHint{OriginalException: errors.New("db down")}, true},
		{"client went away", &sentry.EventHint{OriginalException: fmt.Errorf("place bid: %w", context.Canceled)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dropCancellations(event, tt.hint)
			if (got != nil) != tt.keep {
				t.Fatalf("kept = %v, want %v", got != nil, tt.keep)
			}
		})
	}
}
