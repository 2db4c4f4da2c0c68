// Package health probes the server's HTTP endpoint after startup.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jusmiller/todo-setup/internal/logging"
)

var log = logging.ForComponent(logging.CompHealth)

// DefaultAttempts is the bounded retry count, one second apart.
const DefaultAttempts = 15

// probePath is the liveness endpoint; the response body is not inspected.
const probePath = "/api/tasks"

// Result reports the outcome of a health check. The check is advisory:
// an unreachable service produces a warning, never a setup failure.
type Result struct {
	Reachable bool
	URL       string
	Attempts  int
}

// BaseURL builds the local server address for a port.
func BaseURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// Wait polls the server until it accepts connections or attempts run out.
// Any HTTP response counts as alive; the probe only checks that the listener
// is up, not that the API returns anything in particular.
func Wait(ctx context.Context, baseURL string, attempts int, interval time.Duration) Result {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	client := &http.Client{Timeout: 2 * time.Second}
	url := baseURL + probePath

	for i := 1; i <= attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			break
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			log.Info("server reachable", "url", baseURL, "attempts", i)
			return Result{Reachable: true, URL: baseURL, Attempts: i}
		}

		log.Debug("probe failed", "attempt", i, "error", err)
		select {
		case <-ctx.Done():
			return Result{Reachable: false, URL: baseURL, Attempts: i}
		case <-time.After(interval):
		}
	}

	log.Warn("server not reachable within retry budget", "url", baseURL, "attempts", attempts)
	return Result{Reachable: false, URL: baseURL, Attempts: attempts}
}
