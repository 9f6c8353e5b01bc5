package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newTestLogger creates a Logger backed by traceHandler writing to buf.
func newTestLogger(buf *bytes.Buffer) Logger {
	return NewWriter(buf, "debug")
}

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

func parseLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = lines[i]
			break
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("failed to parse log line %q: %v", last, err)
	}
	return m
}

func TestContextMethods_TraceFields(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	spanCtx, span := otel.Tracer("test").Start(context.Background(), "BidLedger.PlaceBid")
	defer span.End()

	tests := []struct {
		name      string
		ctx       context.Context
		log       func(Logger, context.Context)
		wantTrace bool
	}{
		{"info with span", spanCtx, func(l Logger, ctx context.Context) { l.InfoContext(ctx, "bid placed") }, true},
		{"info without span", context.Background(), func(l Logger, ctx context.Context) { l.InfoContext(ctx, "bid placed") }, false},
		{"error with span", spanCtx, func(l Logger, ctx context.Context) {
			l.ErrorContext(ctx, "bid rejected", "error", errors.New("boom"), "auction_id", "123")
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newTestLogger(&buf), tt.ctx)

			entry := parseLastLine(t, &buf)
			for _, key := range []string{"trace_id", "span_id"} {
				if _, ok := entry[key]; ok != tt.wantTrace {
					t.Fatalf("%s present = %v, want %v", key, ok, tt.wantTrace)
				}
			}
			if tt.wantTrace && entry["trace_id"] != span.SpanContext().TraceID().String() {
				t.Fatalf("trace_id = %v, want %s", entry["trace_id"], span.SpanContext().TraceID())
			}
		})
	}
}

// TestLoggerMiddleware_InjectsRequestIDAndTrace verifies the Logger middleware
// uses InfoContext so chi request_id and OTel trace_id both appear in request logs.
func TestLoggerMiddleware_InjectsRequestIDAndTrace(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Get("/test", func(w http.ResponseWriter, req *http.Request) {
		_, span := otel.Tracer("test").Start(req.Context(), "handler-span")
		defer span.End()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLastLine(t, &buf)
	if _, ok := entry["request_id"]; !ok {
		t.Error("expected request_id in request log")
	}
	if entry["method"] != "GET" {
		t.Errorf("expected method GET, got %v", entry["method"])
	}
}

// TestNestedSpans verifies same trace_id but different span_ids for parent/child.
func TestNestedSpans(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)
	tracer := otel.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "parent")
	log.InfoContext(ctx, "parent log")
	parentEntry := parseLastLine(t, &buf)
	buf.Reset()

	ctx, child := tracer.Start(ctx, "child")
	log.InfoContext(ctx, "child log")
	childEntry := parseLastLine(t, &buf)

	child.End()
	parent.End()

	if parentEntry["trace_id"] != childEntry["trace_id"] {
		t.Errorf("expected same trace_id: %v vs %v", parentEntry["trace_id"], childEntry["trace_id"])
	}
	if parentEntry["span_id"] == childEntry["span_id"] {
		t.Error("expected different span_ids for parent and child")
	}
}

// TestMiddleware_FlushPassesThrough verifies the wrapped writer still supports
// streaming so the notification SSE endpoint works behind the request logger.
func TestMiddleware_FlushPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	flushed := false
	h := Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("expected http.Flusher")
		}
		_, _ = w.Write([]byte("data: x\n\n"))
		f.Flush()
		flushed = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stream", http.NoBody))

	if !flushed || !rr.Flushed {
		t.Fatal("expected response to be flushed")
	}
	entry := parseLastLine(t, &buf)
	if entry["bytes"] != float64(len("data: x\n\n")) {
		t.Errorf("unexpected bytes field: %v", entry["bytes"])
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	Nop().Error("ignored", "key", "value")
}

func TestMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/auctions", http.StatusOK, "INFO"},
		{"/api/auctions/x/bids", http.StatusConflict, "WARN"},
		{"/api/auctions", http.StatusServiceUnavailable, "ERROR"},
		{"/health", http.StatusOK, "DEBUG"},
		{"/health", http.StatusServiceUnavailable, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			h := Middleware(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			if got := parseLastLine(t, &buf)["level"]; got != tt.want {
				t.Fatalf("level = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).Info("auth attempt", "Authorization", "Bearer abc", "token", "abc", "user_id", "u-1")

	entry := parseLastLine(t, &buf)
	if entry["Authorization"] != "[redacted]" || entry["token"] != "[redacted]" {
		t.Fatalf("secrets leaked: %v", entry)
	}
	if entry["user_id"] != "u-1" {
		t.Fatalf("user_id should be kept, got %v", entry["user_id"])
	}
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	var inner http.ResponseWriter
	h := Middleware(Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			t.Fatal("wrapped writer does not expose Unwrap")
		}
		inner = u.Unwrap()
	}))
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notifications/stream", http.NoBody))

	if inner != rr {
		t.Fatal("Unwrap did not return the original writer")
	}
}
