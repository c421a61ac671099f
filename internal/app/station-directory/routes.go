package stationdirectory

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/station-directory/internal/http/handlers/call"
	"github.com/magabrotheeeer/station-directory/internal/http/handlers/health"
	"github.com/magabrotheeeer/station-directory/internal/http/middlewarectx"
)

// Pinger зависимость для /healthz.
type Pinger = health.Pinger

// Deps зависимости маршрутов.
type Deps struct {
	Dispatcher call.Dispatcher
	Verifier   middlewarectx.Verifier
	Registry   *prometheus.Registry
	Checks     map[string]Pinger
	RateLimit  float64
	RateBurst  int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(deps.RateLimit, deps.RateBurst, logger))
		r.Use(middlewarectx.IdentityMiddleware(deps.Verifier, logger))
		r.Post("/call/{operation}", call.New(logger, deps.Dispatcher).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger, deps.Checks).ServeHTTP)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}
