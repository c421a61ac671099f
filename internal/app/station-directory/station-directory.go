// Package stationdirectory собирает зависимости сервиса каталога зарядных
// станций и запускает HTTP-сервер.
package stationdirectory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/station-directory/internal/cache"
	"github.com/magabrotheeeer/station-directory/internal/config"
	"github.com/magabrotheeeer/station-directory/internal/dispatcher"
	"github.com/magabrotheeeer/station-directory/internal/identity"
	"github.com/magabrotheeeer/station-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
	"github.com/magabrotheeeer/station-directory/internal/metrics"
	"github.com/magabrotheeeer/station-directory/internal/migrations"
	profileservice "github.com/magabrotheeeer/station-directory/internal/services/profile"
	stationservice "github.com/magabrotheeeer/station-directory/internal/services/station"
	"github.com/magabrotheeeer/station-directory/internal/storage/repository"
	"github.com/magabrotheeeer/station-directory/internal/validation"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер с его зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New подключается к PostgreSQL и redis, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "stationdirectory.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.Issuer, cfg.TokenTTL)
	provider := identity.NewProvider(tokens, cacheRedis, cfg.TokenTTL, logger)

	profiles := profileservice.New(db, provider, logger)
	stations := stationservice.New(db, cacheRedis, stationservice.Settings{
		CacheTTL:           cfg.CacheTTL,
		AllowForeignDelete: cfg.AllowForeignDelete,
	}, logger)
	if cfg.AllowForeignDelete {
		logger.Warn("station ownership is not checked on delete")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	d := dispatcher.New(profiles, stations, validation.New(), m, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Dispatcher: d,
		Verifier:   provider,
		Registry:   registry,
		Checks: map[string]Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
}
