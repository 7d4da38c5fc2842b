// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	statusOK           = "ok"
	statusDegraded     = "degraded"
	statusNotReady     = "not_ready"
	statusShuttingDown = "shutting_down"

	probeTimeout = 5 * time.Second
)

type Checker interface {
	Ping(ctx context.Context) error
}

// BuildInfo is stamped into the binary with -ldflags at release time.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
}

type dependency struct {
	name    string
	checker Checker
}

// Handler serves the orchestrator probes. Readiness pings the stores the
// API cannot serve without. Liveness only reports that the process runs.
type Handler struct {
	deps     []dependency
	build    BuildInfo
	started  time.Time
	ready    atomic.Bool
	stopping atomic.Bool
}

func NewHandler(db, redis Checker, build BuildInfo) *Handler {
	h := &Handler{
		deps: []dependency{
			{name: "database", checker: db},
			{name: "redis", checker: redis},
		},
		build:   build,
		started: time.Now(),
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// SetReady toggles readiness without touching liveness.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown fails both probes so load balancers drain the instance.
func (h *Handler) SetShutdown(shutdown bool) {
	h.stopping.Store(shutdown)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.stopping.Load() {
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: statusShuttingDown})
		return
	}

	writeProbe(w, http.StatusOK, StatusResponse{
		Status:    statusOK,
		Version:   h.build.Version,
		BuildTime: h.build.BuildTime,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.stopping.Load():
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: statusShuttingDown})
		return
	case !h.ready.Load():
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: statusNotReady})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.probeAll(ctx)

	resp := ReadinessResponse{Status: statusOK, Version: h.build.Version, Checks: checks}
	code := http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			resp.Status = statusDegraded
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeProbe(w, code, resp)
}

// probeAll pings every dependency concurrently. Results keep the order of
// h.deps.
func (h *Handler) probeAll(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.deps))

	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			checks[i] = probe(ctx, dep)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes report through checks

	return checks
}

func probe(ctx context.Context, dep dependency) HealthCheck {
	check := HealthCheck{Name: dep.name}
	if dep.checker == nil {
		check.Message = dep.name + " checker not configured"
		return check
	}

	start := time.Now()
	err := dep.checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Message = "ping failed"
		return check
	}

	check.Healthy = true
	return check
}

func writeProbe(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // best-effort response
}

type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
}

type ReadinessResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Checks  []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
