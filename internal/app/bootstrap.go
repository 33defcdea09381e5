package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	"talent-match/internal/worker"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, logger *log.Logger, reg *routes.Registry) *App {
	f := fiber.New(fiber.Config{
		AppName:     cfg.App.AppName,
		ReadTimeout: 30 * time.Second,
		// extraction waits on the model, so responses can be slow
		WriteTimeout: 5 * time.Minute,
	})

	registerGlobalMiddleware(f, logger)
	reg.Register(f)

	return &App{Fiber: f}
}

// Bootstrap wires the HTTP process. The returned cleanup stops background
// goroutines and releases the container.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(log.Writer(), "", log.LstdFlags|log.LUTC)

	ctx, cancel := context.WithCancel(context.Background())
	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	defer initCancel()

	c, err := NewContainer(initCtx, cfg, logger)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	go c.Hub.Run(ctx)
	if c.Cache.Available() {
		go func() {
			if err := c.Hub.Forward(ctx, c.Cache, ws.MatchEventsChannel); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("component=ws event=relay_stopped err=%v", err)
			}
		}()
	}

	var pub handler.RequestPublisher
	if c.Queue != nil {
		p, err := worker.NewPublisher(c.Queue, cfg.Queue.Queue)
		if err != nil {
			cancel()
			_ = c.Close()
			return nil, nil, err
		}
		c.onClose(p.Close)
		pub = p
	}

	reg := &routes.Registry{
		Health:   handler.NewHealthHandler(c.DB, c.Cache),
		Insight:  handler.NewInsightHandler(c.Extraction),
		Match:    handler.NewMatchHandler(c.Matching),
		Requests: handler.NewInsightRequestHandler(pub),
		WS:       ws.NewHandler(c.Hub, logger),
	}
	if c.JWT != nil {
		reg.Auth = middleware.NewAuthMiddleware(c.JWT)
	}

	app := New(cfg, logger, reg)
	logger.Printf("component=app event=bootstrapped env=%s llm=%s queue=%t auth=%t", cfg.App.Environment, cfg.LLM.Provider, pub != nil, c.JWT != nil)

	return app, func() error {
		cancel()
		return c.Close()
	}, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
