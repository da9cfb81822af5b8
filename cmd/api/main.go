// Package main provides the entrypoint for the Wayguard API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/api"
	"github.com/wayguard/wayguard/internal/api/middleware"
	"github.com/wayguard/wayguard/internal/auth"
	"github.com/wayguard/wayguard/internal/crime"
	"github.com/wayguard/wayguard/internal/database"
	"github.com/wayguard/wayguard/internal/geocode/nominatim"
	"github.com/wayguard/wayguard/internal/provider/resilience"
	"github.com/wayguard/wayguard/internal/routing"
	"github.com/wayguard/wayguard/internal/routing/openrouteservice"
	"github.com/wayguard/wayguard/internal/sos"
	"github.com/wayguard/wayguard/internal/telemetry"
	"github.com/wayguard/wayguard/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wayguard-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wayguard API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "https://api.wayguard.app"
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     jwtIssuer,
		Audience:   serviceName,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Initialize user repository and service
	userRepo := user.NewPostgresRepository(pool)
	userService := user.NewService(userRepo)
	log.Info().Msg("user service initialized")

	// Initialize crime repository and service
	crimeRepo := crime.NewPostgresRepository(pool)
	crimeService := crime.NewService(crime.ServiceConfig{
		Repository: crimeRepo,
		Logger:     log,
	})
	log.Info().Msg("crime data service initialized")

	// Provider registry tracks circuit state for the ops status endpoint.
	registry := resilience.NewRegistry()

	// Initialize the path provider behind the caching routing service
	orsAPIKey := os.Getenv("ORS_API_KEY")
	if orsAPIKey == "" {
		log.Warn().Msg("ORS_API_KEY not set - route planning will fail")
	}

	orsClient := openrouteservice.NewClient(openrouteservice.ClientConfig{
		APIKey:   orsAPIKey,
		Registry: registry,
		Logger:   log,
	})
	pathSource := routing.NewService(routing.ServiceConfig{
		Source: orsClient,
		Logger: log,
	})
	log.Info().Msg("routing service initialized")

	// Initialize the geocoder. The nominatim client takes an HTTP client
	// directly, so build the resilient one here to get it into the registry.
	nominatimCfg := resilience.DefaultClientConfig(nominatim.ProviderName)
	nominatimCfg.Registry = registry
	geocoder := nominatim.NewClient(nominatim.ClientConfig{
		HTTPClient: resilience.NewClient(nominatimCfg),
	})
	log.Info().Msg("geocoder initialized")

	// Initialize SOS service, with Pub/Sub dispatch when configured
	var sosPublisher sos.Publisher
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	pubsubTopic := os.Getenv("PUBSUB_TOPIC")
	if pubsubProject != "" && pubsubTopic != "" {
		publisher, pubErr := sos.NewPubSubPublisher(ctx, sos.PubSubPublisherConfig{
			ProjectID: pubsubProject,
			TopicName: pubsubTopic,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to initialize pubsub publisher")
		}
		defer publisher.Close() //nolint:errcheck // best-effort flush on shutdown
		sosPublisher = publisher
		log.Info().
			Str("topic", pubsubTopic).
			Msg("sos dispatch publisher initialized")
	} else {
		log.Warn().Msg("Pub/Sub not configured - SOS events will stay pending until the worker sweeps them")
	}

	sosRepo := sos.NewPostgresRepository(pool)
	sosService := sos.NewService(sos.ServiceConfig{
		Repository: sosRepo,
		Publisher:  sosPublisher,
		Logger:     log,
	})
	log.Info().Msg("sos service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		Logger:       log,
		ServiceName:  serviceName,
		Metrics:      metrics,
		AuthService:  authService,
		UserService:  userService,
		CrimeService: crimeService,
		SOSService:   sosService,
		PathSource:   pathSource,
		Geocoder:     geocoder,
		Ready: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		Providers: registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
