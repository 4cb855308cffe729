package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultCheckTimeout = 3 * time.Second

// HealthChecker is implemented by the store and the blob staging bucket.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

// Probe runs every dependency check concurrently, each under its own
// deadline.
type Probe struct {
	checkers map[string]HealthChecker
	timeout  time.Duration
	ready    func() bool
}

// NewProbe builds a probe; timeout <= 0 uses the default per-check deadline.
func NewProbe(checkers map[string]HealthChecker, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &Probe{checkers: checkers, timeout: timeout}
}

// WithReady sets the gate consulted by /ready (e.g. service not shutting down).
func (p *Probe) WithReady(fn func() bool) *Probe {
	p.ready = fn
	return p
}

// Run checks all dependencies and reports the aggregate.
func (p *Probe) Run(ctx context.Context) HealthStatus {
	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]CheckStatus, len(p.checkers)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, checker := range p.checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			start := time.Now()
			err := checker.Check(cctx)
			st := CheckStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "unhealthy"
				st.Message = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			health.Checks[name] = st
			if err != nil {
				health.Status = "unhealthy"
			}
			return nil
		})
	}
	g.Wait()
	return health
}

// Health serves GET /health.
func (p *Probe) Health(w http.ResponseWriter, r *http.Request) {
	health := p.Run(r.Context())
	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeStatus(w, code, health)
}

// Ready serves GET /ready: 503 once the service stops accepting work.
func (p *Probe) Ready(w http.ResponseWriter, r *http.Request) {
	if p.ready != nil && !p.ready() {
		writeStatus(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "draining",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	writeStatus(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}

// Live serves GET /live.
func Live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
