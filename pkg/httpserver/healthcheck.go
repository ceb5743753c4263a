package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authguard/pkg/logger"
)

// Check reports the health of one dependency.
type Check func(ctx context.Context) error

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	statusFailed      = "failed"
)

// HealthReport is the JSON body written by HealthHandler.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler runs every check concurrently, each bounded by timeout, and
// answers 200 when all pass or 503 otherwise. Check errors are logged, not
// returned to the client.
func HealthHandler(log *slog.Logger, timeout time.Duration, checks map[string]Check) http.HandlerFunc {
	log = logger.OrNop(log)
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		report := HealthReport{Status: statusOK, Checks: make(map[string]string, len(names))}
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, name := range names {
			wg.Add(1)
			go func(name string, check Check) {
				defer wg.Done()
				status := statusOK
				if err := check(ctx); err != nil {
					status = statusFailed
					log.ErrorContext(ctx, "health check failed", logger.Component(name), logger.Error(err))
				}
				mu.Lock()
				report.Checks[name] = status
				if status != statusOK {
					report.Status = statusUnavailable
				}
				mu.Unlock()
			}(name, checks[name])
		}
		wg.Wait()

		code := http.StatusOK
		if report.Status != statusOK {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, report)
	}
}

// LivenessHandler always answers 200 while the process serves requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthReport{Status: statusOK})
	}
}

// NewRouter returns a chi router serving /livez and /healthz.
func NewRouter(log *slog.Logger, timeout time.Duration, checks map[string]Check) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/livez", LivenessHandler())
	r.Get("/healthz", HealthHandler(log, timeout, checks))
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
