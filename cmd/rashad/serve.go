package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/rashad-agri/marketplace/internal/api"
	"github.com/rashad-agri/marketplace/internal/api/handler"
	"github.com/rashad-agri/marketplace/internal/api/metrics"
	"github.com/rashad-agri/marketplace/internal/api/middleware"
	"github.com/rashad-agri/marketplace/internal/core/service"
	"github.com/rashad-agri/marketplace/internal/core/view"
	"github.com/rashad-agri/marketplace/internal/infrastructure/db/mongo"
	"github.com/rashad-agri/marketplace/internal/infrastructure/db/redis"
	"github.com/rashad-agri/marketplace/internal/infrastructure/identity"
	"github.com/rashad-agri/marketplace/internal/infrastructure/queue"
	"github.com/rashad-agri/marketplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var ensureIndexes bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&ensureIndexes, "ensure-indexes", false, "create the MongoDB indexes before serving")
}

func serve(parent context.Context) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	if ensureIndexes {
		n, err := mongo.EnsureIndexes(ctx, db)
		if err != nil {
			return err
		}
		log.Info().Int("collections", n).Msg("indexes ensured")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	store := mongo.NewStore(db)
	recorder := metrics.Recorder{}

	// --- Identity and auth events ---
	hub := identity.NewHub()
	notifier := redis.NewNotifier(rdb, log)
	provider := identity.NewProvider(
		mongo.NewIdentityRepository(db),
		store,
		redis.NewTokenStore(rdb),
		notifier,
		cfg.JWTSecret,
		cfg.Session.TokenTTL,
		log,
	)

	dispatcher := queue.NewDispatcher(cfg.Backend.DispatchWorkers, hub, recorder, log)
	dispatcher.Start(ctx)
	go func() {
		if err := notifier.Listen(ctx, dispatcher.Route(ctx)); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("auth event listener stopped")
		}
	}()

	// --- Sessions ---
	nav := service.ContextNavigator{}
	registry := service.NewSessionRegistry(func(sid string) *service.Session {
		client := service.NewBackendClient(identity.NewClient(sid, provider, hub), store, cfg.Backend.Timeout, recorder, log)
		chrome := view.NewChromeState()
		return &service.Session{
			ID:     sid,
			Client: client,
			Chrome: chrome,
			Manager: service.NewSessionManager(sid, service.SessionDeps{
				Client:   client,
				Cache:    redis.NewProfileCache(rdb, sid, cfg.Session.TokenTTL),
				Gate:     chrome,
				Nav:      nav,
				Observer: recorder,
			}, log),
		}
	}, cfg.Session.IdleTTL, log)
	go registry.Run(ctx)

	// --- HTTP ---
	v := validator.New()
	e := api.NewRouter(api.Deps{
		Sessions: registry,
		Session: middleware.SessionOptions{
			JWTSecret: cfg.JWTSecret,
			Secure:    cfg.Session.CookieSecure,
			MaxAge:    cfg.Session.TokenTTL,
		},
		Forms:     service.NewFormController(v, recorder, nav, log),
		Pages:     service.NewPageLoader(log),
		Validator: v,
		Readiness: []handler.Dependency{
			{Name: "mongo", Ping: mongo.Ping(db)},
			{Name: "redis", Ping: redis.Ping(rdb)},
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
		return err
	}
	registry.Close()
	return nil
}
