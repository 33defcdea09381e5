package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/database/migration"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/llm"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/prompt"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
	"talent-match/internal/ws"

	"github.com/streadway/amqp"
)

// Container owns every long-lived dependency of a process.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Queue *amqp.Connection
	Hub   *ws.Hub
	JWT   jwt.Service

	Extraction *usecase.Extraction
	Matching   *usecase.Matching

	closers []func() error
}

var (
	_ ws.EventBus           = (*cache.Redis)(nil)
	_ usecase.MatchNotifier = (*ws.RelayNotifier)(nil)
)

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}
	if err := c.build(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// build acquires dependencies in order and releases the acquired ones when a
// later step fails.
func (c *Container) build(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()
	cfg, logger := c.Config, c.Logger

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	c.DB = db
	c.onClose(db.Close)

	if cfg.Database.MigrateOnStart {
		if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Printf("component=app event=migrations_applied")
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.onClose(c.Cache.Close)

	completer, closeLLM, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	c.onClose(closeLLM)

	var files usecase.ObjectFetcher
	store, err := storage.NewS3(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if store != nil {
		files = store
	}

	if strings.TrimSpace(cfg.Queue.URL) != "" {
		conn, err := amqp.Dial(cfg.Queue.URL)
		if err != nil {
			return fmt.Errorf("dial amqp: %w", err)
		}
		c.Queue = conn
		c.onClose(conn.Close)
	}

	if cfg.Auth.AccessSecret != "" {
		c.JWT = jwt.NewHMACService(cfg.Auth.AccessSecret, cfg.Auth.AccessExpiresIn)
	}

	renderer, err := prompt.NewRenderer()
	if err != nil {
		return err
	}

	jobs := usecase.NewRepositoryJobSource(repository.NewPostgresJobRepository(db))
	resumes := usecase.NewRepositoryResumeSource(repository.NewPostgresResumeRepository(db), files)
	jobReqs := repository.NewPostgresJobRequirementsRepository(db)
	insights := repository.NewPostgresResumeInsightsRepository(db)
	matches := repository.NewPostgresMatchingIndexRepository(db)

	c.Hub = ws.NewHub(logger)

	// With Redis up, match events go through pub/sub so a match computed by
	// the worker reaches sockets held by the server.
	var notifier usecase.MatchNotifier = c.Hub
	if c.Cache.Available() {
		notifier = ws.NewRelayNotifier(c.Cache, ws.MatchEventsChannel, c.Hub, logger)
	}

	c.Extraction = usecase.NewExtractionUsecase(jobs, resumes, renderer, completer, jobReqs, insights, c.Cache, logger)
	c.Matching = usecase.NewMatchingUsecase(jobs, resumes, renderer, completer, jobReqs, insights, matches, c.Cache, notifier, logger)

	return nil
}

func (c *Container) onClose(fn func() error) {
	if fn != nil {
		c.closers = append(c.closers, fn)
	}
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
