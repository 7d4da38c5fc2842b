// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/bookstore-api/internal/book"
	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// HandlerConfig wires the dashboard query and the pool probes. Any probe
// left nil is reported as absent rather than failing the request.
type HandlerConfig struct {
	Dashboard  Repository
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

type Handler struct {
	dashboard Repository
	probes    HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{dashboard: cfg.Dashboard, probes: cfg}
}

// RegisterAdminRoutes expects r to already enforce the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.GetDashboardStats)

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.GetSystemStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

// GetDashboardStats reports catalogue totals. The average rating is null
// until the first rating exists.
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.DashboardStats(r.Context())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	stats.AverageRating = book.RoundAverage(stats.AverageRating)
	core.OK(w, stats)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.snapshot(r.Context()))
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, dbPool(h.probes.DBStats))
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, redisPool(h.probes.RedisStats))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntime())
}
