package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/vacation-portal/internal/api"
	"github.com/iliyamo/vacation-portal/internal/config"
	"github.com/iliyamo/vacation-portal/internal/guard"
	"github.com/iliyamo/vacation-portal/internal/handler"
	"github.com/iliyamo/vacation-portal/internal/logger"
	"github.com/iliyamo/vacation-portal/internal/middleware"
	"github.com/iliyamo/vacation-portal/internal/queue"
	"github.com/iliyamo/vacation-portal/internal/router"
	"github.com/iliyamo/vacation-portal/internal/service"
	"github.com/iliyamo/vacation-portal/internal/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("portal stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	store, err := newStore(ctx, cfg.Session, rdb, log)
	if err != nil {
		return err
	}

	vacationsAPI, err := api.New(api.Options{
		BaseURL:    cfg.APIBaseURL,
		LoginPath:  cfg.APILoginPath,
		LogoutPath: cfg.APILogoutPath,
		Timeout:    cfg.HTTPTimeout,
	})
	if err != nil {
		return err
	}
	// the statistics API keeps its own session cookie in its own jar
	statsAPI, err := api.New(api.Options{
		BaseURL:    cfg.StatsAPIBaseURL,
		LoginPath:  "/login",
		LogoutPath: "/logout",
		Timeout:    cfg.HTTPTimeout,
	})
	if err != nil {
		return err
	}

	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL, log)
		log.Info("publishing session events", "queue", queue.SessionQueueName)
	}

	g := guard.New(cfg.GuardRedirect)
	authSvc := service.NewAuthService(store, vacationsAPI, events, log).WithStatistics(statsAPI)
	deps := router.Deps{
		Sessions:  store,
		Guard:     g,
		Auth:      handler.NewAuthHandler(authSvc, store, g),
		Vacations: handler.NewVacationHandler(service.NewVacationService(vacationsAPI, store, log)),
		Stats:     handler.NewStatsHandler(service.NewStatsService(statsAPI)),
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Logger:    log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				log.ErrorContext(c.Request().Context(), "request failed", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			log.InfoContext(c.Request().Context(), "request completed", attrs...)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.SessionIdentity(store))

	router.RegisterRoutes(e)
	router.RegisterSession(e, deps)
	router.RegisterViews(e, deps)

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "persistence", store.Persistence())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newStore(ctx context.Context, cfg config.SessionConfig, rdb *redis.Client, log *slog.Logger) (*session.Store, error) {
	opts := session.Options{Persistence: cfg.Persistence, Key: cfg.Key, Logger: log}
	if cfg.Persistence == session.PersistenceLocalEcho {
		switch cfg.Storage {
		case config.StorageRedis:
			if rdb == nil {
				return nil, errors.New("SESSION_STORAGE=redis but redis is unavailable")
			}
			rs, err := session.NewRedisStorage(rdb, cfg.RedisPrefix)
			if err != nil {
				return nil, err
			}
			opts.Storage = rs
		default:
			fs, err := session.NewFileStorage(cfg.Dir)
			if err != nil {
				return nil, err
			}
			opts.Storage = fs
		}
	}
	return session.NewStore(ctx, opts)
}
