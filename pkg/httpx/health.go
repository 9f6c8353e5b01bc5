package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is satisfied by any dependency with a Ping method.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the dependencies probed by the health endpoint.
// Nil entries are reported as "disabled".
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler probes every dependency concurrently within two seconds and
// answers 503 when any of them fails.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	named := map[string]HealthChecker{
		"database":  checks.Database,
		"redis":     checks.Redis,
		"event_bus": checks.EventBus,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var (
			mu   sync.Mutex
			g    errgroup.Group
			resp = healthResponse{Status: "ok", Checks: make(map[string]string, len(named))}
		)
		for name, c := range named {
			if c == nil {
				mu.Lock()
				resp.Checks[name] = "disabled"
				mu.Unlock()
				continue
			}
			g.Go(func() error {
				state := "ok"
				if err := c.Ping(ctx); err != nil {
					state = "unreachable"
				}
				mu.Lock()
				defer mu.Unlock()
				resp.Checks[name] = state
				if state != "ok" {
					resp.Status = "degraded"
				}
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
