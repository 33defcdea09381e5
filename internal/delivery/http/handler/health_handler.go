package handler

import (
	"context"
	"time"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports database and cache reachability. The cache is
// optional, so only a database failure makes the service unhealthy.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := dto.HealthResponse{Status: "ok", Database: "ok", Cache: "ok"}
	if h.db == nil || h.db.Ping(ctx) != nil {
		out.Status = "degraded"
		out.Database = "unavailable"
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		out.Cache = "unavailable"
	}

	status := fiber.StatusOK
	if out.Database != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return response.Success(c, status, "", out)
}
