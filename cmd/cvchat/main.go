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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/config"
	"github.com/jbritton/cvchat/internal/corpus"
	"github.com/jbritton/cvchat/internal/db"
	dbRedis "github.com/jbritton/cvchat/internal/db/redis"
	logpkg "github.com/jbritton/cvchat/internal/logger"
	"github.com/jbritton/cvchat/internal/metrics"
	"github.com/jbritton/cvchat/internal/repository/anscache"
	chiTransport "github.com/jbritton/cvchat/internal/transport/chi"
	openaiTransport "github.com/jbritton/cvchat/internal/transport/openai"
	answeruc "github.com/jbritton/cvchat/internal/usecase/answer"
	healthuc "github.com/jbritton/cvchat/internal/usecase/health"
	"github.com/jbritton/cvchat/internal/usecase/retrieve"
	"github.com/jbritton/cvchat/internal/usecase/sanitize"
	"github.com/jbritton/cvchat/internal/version"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cvchat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	// Load the CV corpus. Missing or malformed data files degrade to an
	// empty corpus; the server still starts and reports it via /healthz.
	corp := corpus.Load(cfg.Corpus.ProfilePath, cfg.Corpus.NarrativePath, logger)
	logger.Info("Corpus loaded",
		zap.Int("chunks", len(corp.Chunks())),
		zap.Strings("sections", corp.SectionNames()),
	)

	// Register chat metrics explicitly (no init())
	metrics.RegisterChatMetrics()

	// Optional Redis answer cache. Empty addrs disables caching.
	var store db.Store
	var cache answeruc.Cache
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		store = redisStore
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to answer cache", zap.Strings("addrs", cfg.Cache.Addrs))

		cache = anscache.New(
			store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.AnswerCacheTotal,
			logger,
		)
	}

	// Resolve the completion model: config override first, then the
	// environment candidates with the prefix allow-list.
	modelDiag := resolveModel(cfg, logger)

	// Build completer chain — composition root
	base := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		Model:           modelDiag.Model,
		MaxOutputTokens: cfg.OpenAI.MaxOutputTokens,
		Temperature:     cfg.OpenAI.Temperature,
		Logger:          logger,
	})
	completer := answeruc.NewCircuitCompleter(base, logger)

	// Use case services
	sanitizer := sanitize.New(sanitize.Policy(cfg.Safety.Policy), cfg.Safety.MaxQueryLen)

	retrieveCfg := retrieve.DefaultConfig()
	retrieveCfg.MaxCandidates = cfg.Retrieval.MaxCandidates
	retrieveCfg.TopK = cfg.Retrieval.TopK
	retrieveCfg.MinScore = cfg.Retrieval.MinScore
	retriever := retrieve.New(retrieveCfg)

	answers := answeruc.New(sanitizer, retriever, corp, completer, cache, logger)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(corp, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(answers, healthSvc, modelDiag, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// resolveModel picks the completion model and logs the decision trail.
func resolveModel(cfg config.Config, logger *zap.Logger) openaiTransport.Diagnostics {
	if cfg.OpenAI.Model != "" {
		return openaiTransport.Diagnostics{
			Model:           cfg.OpenAI.Model,
			CandidateSource: "config",
		}
	}

	diag := openaiTransport.ResolveModel(os.Getenv)
	if diag.EnforcedDefault {
		logger.Warn("Requested model not allowed, using default",
			zap.String("candidate", diag.RawCandidate),
			zap.String("source", diag.CandidateSource),
			zap.String("model", diag.Model),
		)
	} else {
		logger.Info("Completion model resolved",
			zap.String("model", diag.Model),
			zap.String("source", diag.CandidateSource),
		)
	}
	return diag
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
