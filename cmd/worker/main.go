package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent-match/internal/app"
	"talent-match/internal/config"
	"talent-match/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Queue.URL == "" {
		log.Fatalf("AMQP_URL is required for the worker")
	}

	logger := log.New(os.Stderr, "", log.LstdFlags|log.LUTC)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	c, err := app.NewContainer(initCtx, cfg, logger)
	cancelInit()
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Match events leave through Redis; the local hub only catches events the
	// relay could not publish.
	go c.Hub.Run(ctx)
	if !c.Cache.Available() {
		logger.Printf("component=worker event=relay_disabled reason=redis_unavailable")
	}

	dispatcher := worker.NewDispatcher(c.Extraction, c.Matching, logger)
	consumer := worker.NewConsumer(c.Queue, cfg.Queue.Queue, cfg.Queue.Workers, dispatcher, logger)

	logger.Printf("component=worker event=started queue=%s workers=%d", cfg.Queue.Queue, cfg.Queue.Workers)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("worker stopped: %v", err)
	}
}
