package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cilip-de/polizeischuesse/internal/config"
	"github.com/cilip-de/polizeischuesse/internal/index"
	logpkg "github.com/cilip-de/polizeischuesse/internal/logger"
	"github.com/cilip-de/polizeischuesse/internal/metrics"
	datasetrepo "github.com/cilip-de/polizeischuesse/internal/repository/dataset"
	geocoderepo "github.com/cilip-de/polizeischuesse/internal/repository/geocode"
	chiTransport "github.com/cilip-de/polizeischuesse/internal/transport/chi"
	casesuc "github.com/cilip-de/polizeischuesse/internal/usecase/cases"
	datasetuc "github.com/cilip-de/polizeischuesse/internal/usecase/dataset"
	geouc "github.com/cilip-de/polizeischuesse/internal/usecase/geo"
	healthuc "github.com/cilip-de/polizeischuesse/internal/usecase/health"
	searchuc "github.com/cilip-de/polizeischuesse/internal/usecase/search"
	statsuc "github.com/cilip-de/polizeischuesse/internal/usecase/stats"
	"github.com/cilip-de/polizeischuesse/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting polizeischuesse API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset_base_url", cfg.Dataset.BaseURL),
		zap.String("geocode_db", cfg.Geocode.DBPath),
	)

	geocodes, err := geocoderepo.Open(cfg.Geocode.DBPath)
	if err != nil {
		logger.Fatal("Failed to open geocode database", zap.Error(err))
	}
	defer geocodes.Close()

	ctx := context.Background()
	if err := geocodes.Ping(ctx); err != nil {
		logger.Fatal("Geocode database not ready", zap.Error(err))
	}
	logger.Info("Connected to geocode database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	sources := datasetrepo.New(datasetrepo.Config{
		BaseURL:   cfg.Dataset.BaseURL,
		CasesPath: cfg.Dataset.CasesPath,
		TaserPath: cfg.Dataset.TaserPath,
		Timeout:   time.Duration(cfg.Dataset.FetchTimeoutSec) * time.Second,
	})

	// Create use case services
	snapshots := datasetuc.New(sources, index.Options{
		Mode:          index.Mode(cfg.Search.Mode),
		CaseSensitive: cfg.Search.CaseSensitive,
	}, logger)

	casesSvc := casesuc.New(snapshots).
		WithPagination(cfg.Index.DefaultPageSize, cfg.Index.MaxPageSize)
	searchSvc := searchuc.New(snapshots)
	statsSvc := statsuc.New(casesSvc)
	geoSvc := geouc.New(casesSvc, geocodes)
	healthSvc := healthuc.New(geocodes, snapshots)

	// Create chi server
	server := chiTransport.NewServer(casesSvc, searchSvc, statsSvc, geoSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
