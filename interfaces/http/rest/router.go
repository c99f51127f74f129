// Package rest exposes the reference data and user endpoints over HTTP.
package rest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"yti-common/application/security"
	"yti-common/infrastructure/observability"
	"yti-common/interfaces/http/rest/handlers"
	"yti-common/interfaces/http/rest/middleware"
	pkgerrors "yti-common/pkg/errors"
)

// Dependencies are the collaborators of the router. Organizations,
// Metrics and Authenticator may be nil.
type Dependencies struct {
	Store          handlers.HealthChecker
	Reference      handlers.ReferenceData
	Users          handlers.UserDirectory
	Organizations  handlers.OrganizationSearcher
	Authenticator  *security.JWTAuthenticator
	Metrics        *observability.Collector
	AllowedOrigins []string
	Tracing        bool
	Debug          bool
}

// Router builds the HTTP handler of the service.
type Router struct {
	deps   Dependencies
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewRouter creates a new router
func NewRouter(deps Dependencies, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		deps:   deps,
		errors: pkgerrors.NewErrorHandler(logger, deps.Debug),
		logger: logger,
	}
}

// Setup configures all routes
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	if rt.deps.Tracing {
		router.Use(middleware.Tracing())
	}
	router.Use(middleware.Logger(rt.logger, rt.deps.Metrics))

	router.Use(cors.Handler(corsOptions(rt.deps.AllowedOrigins)))

	router.Get("/health", handlers.NewHealthHandler(rt.deps.Store, rt.logger).Health)
	if rt.deps.Metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.deps.Metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.deps.Authenticator, rt.errors, rt.logger))

		r.Route("/frontend", func(r chi.Router) {
			frontendHandler := handlers.NewFrontendHandler(rt.deps.Reference, rt.errors, rt.logger)
			r.Get("/organizations", frontendHandler.GetOrganizations)
			r.Get("/service-categories", frontendHandler.GetServiceCategories)
			if rt.deps.Organizations != nil {
				searchHandler := handlers.NewSearchHandler(rt.deps.Organizations, rt.errors, rt.logger)
				r.Get("/organizations/search", searchHandler.SearchOrganizations)
			}
		})

		r.Route("/user", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(rt.deps.Users, rt.errors, rt.logger)
			r.Get("/", userHandler.GetUser)
			r.Get("/fakeable-users", userHandler.GetFakeableUsers)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser(rt.errors))
				r.Get("/requests", userHandler.GetRequests)
				r.Post("/requests", userHandler.SendRequest)
			})
		})
	})

	return router
}

// corsOptions allows credentialed requests. A wildcard origin echoes the
// caller's origin since browsers refuse "*" together with credentials.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return opts
}
