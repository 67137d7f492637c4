package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/study-material-bot/internal/cache"
	"github.com/aliskhannn/study-material-bot/internal/config"
	"github.com/aliskhannn/study-material-bot/internal/delivery/telegram"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
	"github.com/aliskhannn/study-material-bot/internal/generator"
	"github.com/aliskhannn/study-material-bot/internal/infra/postgres"
	infratg "github.com/aliskhannn/study-material-bot/internal/infra/telegram"
	"github.com/aliskhannn/study-material-bot/internal/logger"
	"github.com/aliskhannn/study-material-bot/internal/repository"
	"github.com/aliskhannn/study-material-bot/internal/service"
	"github.com/aliskhannn/study-material-bot/internal/storage"
)

func main() {
	// A missing .env is fine: production passes real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Bot.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(telegram.Commands()); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)

	store, cleanup, err := openStore(ctx, g, cfg, lg)
	if err != nil {
		return err
	}
	defer cleanup()

	files := infratg.NewFileFetcher(bot, nil, cfg.Document.MaxBytes)
	gen := generator.NewClient(generator.Config{
		BaseURL: cfg.Generator.BaseURL,
		Count:   cfg.Generator.Count,
		Timeout: cfg.Generator.Timeout,
	}, lg.Named("generator"))

	study := service.NewStudyService(
		store,
		gen,
		files,
		workspace.Reducer{LockAnswers: cfg.Quiz.LockAnswers},
		lg.Named("study"),
	)

	handler := telegram.NewHandler(bot, lg.Named("telegram"), study, files, telegram.Options{
		MaxFileBytes:   cfg.Document.MaxBytes,
		LockAnswers:    cfg.Quiz.LockAnswers,
		PollingTimeout: cfg.Bot.PollingTimeout,
	})
	g.Go(func() error {
		return handler.Run(ctx)
	})

	err = g.Wait()
	lg.Info("shutdown complete")
	return err
}

// openStore connects the configured workspace store and schedules idle cleanup on g.
func openStore(ctx context.Context, g *errgroup.Group, cfg *config.Config, lg *zap.Logger) (service.WorkspaceStore, func(), error) {
	ttl := cfg.Storage.IdleTTL
	interval := cfg.Storage.SweepInterval
	lg = lg.With(zap.String("storage", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		repo := repository.NewWorkspaceRepository(pool, postgres.NewTransactor(pool))
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		if ttl > 0 && interval > 0 {
			g.Go(func() error {
				return sweepEvery(ctx, interval, func() {
					n, err := repo.DeleteIdle(ctx, time.Now().Add(-ttl))
					if err != nil {
						if ctx.Err() == nil {
							lg.Warn("failed to delete idle workspaces", zap.Error(err))
						}
						return
					}
					if n > 0 {
						lg.Info("idle workspaces deleted", zap.Int64("count", n))
					}
				})
			})
		}

		lg.Info("workspace store ready")
		return repo, pool.Close, nil

	case config.DriverRedis:
		rdb, err := cache.NewClient(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}

		// Redis expires idle keys itself.
		c := cache.NewWorkspaceCache(rdb, ttl)
		if err := c.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}

		lg.Info("workspace store ready")
		return c, func() { _ = rdb.Close() }, nil

	default:
		mem := storage.NewWorkspaceStorage()
		if ttl > 0 && interval > 0 {
			g.Go(func() error {
				return mem.RunSweeper(ctx, interval, ttl, func(n int) {
					lg.Info("idle workspaces deleted", zap.Int("count", n))
				})
			})
		}

		lg.Info("workspace store ready")
		return mem, func() {}, nil
	}
}

func sweepEvery(ctx context.Context, interval time.Duration, fn func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn()
		}
	}
}
