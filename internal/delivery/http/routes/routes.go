package routes

import (
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health   *handler.HealthHandler
	Insight  *handler.InsightHandler
	Match    *handler.MatchHandler
	Requests *handler.InsightRequestHandler
	WS       *ws.Handler
	Auth     *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.WS == nil {
		return
	}
	app.Get("/ws/matches", r.WS.HandleMatchesWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), v1.Handlers{
		Insight:  r.Insight,
		Match:    r.Match,
		Requests: r.Requests,
	}, r.Auth)
}
