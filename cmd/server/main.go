package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/config"
	"github.com/mindtrack/api/internal/handlers"
	"github.com/mindtrack/api/internal/logger"
	"github.com/mindtrack/api/internal/middleware"
	"github.com/mindtrack/api/internal/motivation"
	"github.com/mindtrack/api/internal/stats"
	"github.com/mindtrack/api/internal/store"
	"github.com/mindtrack/api/internal/telemetry"
)

const serviceName = "mindtrack-api"

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewProductionLogger(cfg.ServerDebugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.String("server_port", cfg.ServerPort),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("debug_mode", cfg.ServerDebugMode),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.Init(context.Background(), telemetry.Options{
				ServiceName: serviceName,
				Endpoint:    cfg.OTELEndpoint,
			})
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to the storage backend
	openCtx, openCancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := store.Open(openCtx, store.Options{
		Backend:       cfg.StoreBackend,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		SQLitePath:    cfg.SQLitePath,
		DatabaseURL:   cfg.DatabaseURL,
	})
	openCancel()
	if err != nil {
		zapLogger.Fatal("failed_to_open_store",
			zap.String("backend", cfg.StoreBackend),
			zap.Error(err),
		)
	}
	defer func() {
		if err := st.Close(); err != nil {
			zapLogger.Warn("failed_to_close_store", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_store", zap.String("backend", cfg.StoreBackend))

	// Redis is optional; without it rate limiting is per-process
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_redis")
	} else {
		zapLogger.Info("redis_not_configured_using_memory_rate_limiter")
	}

	rateLimitMW, err := middleware.RateLimit(redisClient, cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	engine := stats.NewEngine(zapLogger)
	messenger := motivation.New(nil)

	habitHandler := handlers.NewHabitHandler(st, zapLogger)
	logHandler := handlers.NewLogHandler(st, zapLogger)
	statsHandler := handlers.NewStatsHandler(st, engine, messenger, zapLogger)
	healthChecker := handlers.NewHealthChecker(st)

	r := mux.NewRouter()

	// Middleware order: outermost registered first
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(middleware.CORSOrigins(cfg.FrontendURL)))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/", rootBanner).Methods("GET")
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	// API v1 routes: every endpoint is scoped to an owner
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.Owner(zapLogger))
	apiRouter.Use(rateLimitMW)

	habitHandler.RegisterRoutes(apiRouter.PathPrefix("/habits").Subrouter())
	logHandler.RegisterRoutes(apiRouter.PathPrefix("/logs").Subrouter())
	statsHandler.RegisterRoutes(apiRouter)

	// rs/cors answers preflight requests directly; this catch-all covers
	// plain OPTIONS requests so they don't 405.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func rootBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"message":"MindTrack API is running!","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
