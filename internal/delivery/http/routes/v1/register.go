package v1

import (
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Insight  *handler.InsightHandler
	Match    *handler.MatchHandler
	Requests *handler.InsightRequestHandler
}

// Register mounts the v1 API. Every route sits behind auth when auth is
// configured.
func Register(r fiber.Router, h Handlers, auth *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	protected := r
	if auth != nil {
		protected = r.Group("", auth.Middleware())
	}

	if h.Insight != nil {
		h.Insight.RegisterRoutes(protected)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(protected)
	}
	if h.Requests != nil {
		h.Requests.RegisterRoutes(protected)
	}
}
