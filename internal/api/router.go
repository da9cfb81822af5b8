// Package api provides the HTTP API for Wayguard.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/api/handler"
	"github.com/wayguard/wayguard/internal/api/middleware"
	"github.com/wayguard/wayguard/internal/auth"
	"github.com/wayguard/wayguard/internal/crime"
	"github.com/wayguard/wayguard/internal/geocode"
	"github.com/wayguard/wayguard/internal/provider/resilience"
	"github.com/wayguard/wayguard/internal/routing"
	"github.com/wayguard/wayguard/internal/sos"
	"github.com/wayguard/wayguard/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	AuthService  *auth.Service
	UserService  *user.Service
	CrimeService *crime.Service
	SOSService   *sos.Service
	PathSource   routing.PathSource
	Geocoder     geocode.Geocoder

	// Ready is an optional dependency probe used by the readiness endpoint.
	Ready func(ctx context.Context) error

	// Providers is the optional provider health registry for /v1/ops/status.
	Providers *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wayguard-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Ready, cfg.Providers)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.UserService)
	profileHandler := handler.NewProfileHandler(cfg.UserService)
	routeHandler := handler.NewRouteHandler(cfg.PathSource, cfg.Geocoder, cfg.CrimeService, cfg.Logger)
	navigationHandler := handler.NewNavigationHandler()
	sosHandler := handler.NewSOSHandler(cfg.SOSService, cfg.UserService)
	crimeHandler := handler.NewCrimeHandler(cfg.CrimeService)

	authMiddleware := middleware.Auth(cfg.AuthService)

	// Rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Place search (public) - standard rate limiting
		r.With(standardRateLimit).Get("/geocode", routeHandler.SearchPlaces)

		// Route planning - provider-backed, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:plan", routeHandler.PlanRoutes)

		// Navigation engine endpoints - standard rate limiting
		r.Route("/navigation", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Post("/simulate", navigationHandler.Simulate)
			r.Post("/heading", navigationHandler.Heading)
		})

		// Crime dataset (public read) - standard rate limiting
		r.With(standardRateLimit).Get("/crime-data", crimeHandler.GetCrimeData)

		// Crime reports (authenticated)
		r.With(authMiddleware, middleware.RateLimitByUser(middleware.StandardRateLimit)).
			Post("/crime-reports", crimeHandler.SubmitReport)

		// SOS (authenticated)
		r.With(authMiddleware, middleware.RateLimitByUser(middleware.StandardRateLimit)).
			Post("/sos", sosHandler.Trigger)

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			// Profile and emergency contacts
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile/phone", profileHandler.UpdatePhone)
			r.Post("/contacts", profileHandler.AddContact)
			r.Delete("/contacts/{phone}", profileHandler.RemoveContact)

			// History
			r.Get("/sos", sosHandler.ListEvents)
			r.Get("/crime-reports", crimeHandler.ListReports)
		})
	})

	return r
}
