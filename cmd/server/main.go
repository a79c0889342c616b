package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/floorplan-seat-planner/internal/config"
	"github.com/iliyamo/floorplan-seat-planner/internal/database"
	"github.com/iliyamo/floorplan-seat-planner/internal/handler"
	"github.com/iliyamo/floorplan-seat-planner/internal/logger"
	"github.com/iliyamo/floorplan-seat-planner/internal/middleware"
	"github.com/iliyamo/floorplan-seat-planner/internal/persistence"
	"github.com/iliyamo/floorplan-seat-planner/internal/queue"
	"github.com/iliyamo/floorplan-seat-planner/internal/router"
	"github.com/iliyamo/floorplan-seat-planner/internal/service"
	"github.com/iliyamo/floorplan-seat-planner/internal/store"
)

func main() {
	// .env is optional; container deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs the cache and limiter, and the state store when selected.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn().Msg("redis unavailable; cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	st, closeStore, err := openStore(ctx, cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open state store")
	}
	defer closeStore()

	engine, err := service.Bootstrap(ctx, persistence.NewAdapter(st, cfg.StoreKey, log), log)
	if err != nil {
		log.Fatal().Err(err).Msg("load planner state")
	}

	cacheCfg := config.LoadCacheConfig()
	engine.OnChange(func(ctx context.Context, _ queue.SeatingChangedEvent) {
		middleware.Invalidate(ctx, cacheCfg, rdb, log)
	})
	if cfg.EventsEnabled {
		engine.OnChange(service.NewPublisher(cfg.RabbitURL, log).Hook())
		go func() {
			err := queue.StartAuditConsumer(ctx, cfg.RabbitURL, cfg.AuditLogPath, log)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("audit consumer stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterPlanner(e, handler.NewPlannerHandler(engine, log),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		middleware.NewRedisCache(cacheCfg, rdb),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Str("store", cfg.StoreDriver).
			Bool("events", cfg.EventsEnabled).
			Bool("redis", rdb != nil).
			Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// openStore builds the byte store selected by STORE_DRIVER.  The returned
// func releases any connection it opened.
func openStore(ctx context.Context, cfg config.Config, rdb *redis.Client) (store.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case config.DriverRedis:
		if rdb == nil {
			return nil, noop, errors.New("STORE_DRIVER=redis but redis is unreachable")
		}
		return store.NewRedisStore(rdb, "planner"), noop, nil
	case config.DriverMySQL:
		db, err := database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, noop, err
		}
		return migrated(ctx, db, store.DialectMySQL)
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return migrated(ctx, db, store.DialectSQLite)
	default:
		return store.NewMemoryStore(), noop, nil
	}
}

func migrated(ctx context.Context, db *sql.DB, dialect store.Dialect) (store.Store, func(), error) {
	s := store.NewSQLStore(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, func() {}, err
	}
	return s, func() { _ = db.Close() }, nil
}
