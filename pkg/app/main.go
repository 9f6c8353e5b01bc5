package app

import (
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/realtime"
	"github.com/ghuser/auctionhouse/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all modules.
// cmd/api and cmd/worker build one each and pass it to the module constructors.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "bid placed", "auction_id", id)
//	app.Logger.ErrorContext(ctx, "failed to close auction", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless SCHEDULER_BACKEND=temporal
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process
	Tokens         *auth.TokenVerifier       // nil in worker process
	Metrics        prometheus.Registerer
	Realtime       realtime.Publisher // Redis bus in the worker
	Hub            *realtime.Hub      // SSE fan-out; nil in worker process
}
