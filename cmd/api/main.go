// Package main runs the platform API server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/soil-network/platform-api/internal/api"
	"github.com/soil-network/platform-api/internal/blobstore"
	"github.com/soil-network/platform-api/internal/cardano"
	"github.com/soil-network/platform-api/internal/config"
	"github.com/soil-network/platform-api/internal/docstore"
	"github.com/soil-network/platform-api/internal/kvstore"
	"github.com/soil-network/platform-api/internal/logging"
	"github.com/soil-network/platform-api/internal/middleware"
	"github.com/soil-network/platform-api/internal/router"
	"github.com/soil-network/platform-api/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	var cfg *config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.FromEnv()
	}

	logger := logging.New("api", cfg.Development())
	logger.Infof("Starting platform API on %s (env=%s)", cfg.ListenAddr, cfg.Environment)

	// Redis backs both stores when configured; otherwise everything is
	// in-memory, which only makes sense for local development.
	var (
		kv    kvstore.Store
		blobs blobstore.Backend
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("Failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		cancel()
		kv = kvstore.NewRedis(client)
		blobs = blobstore.NewRedis(client)
		logger.Infof("Using redis stores at %s", cfg.RedisAddr)
	} else {
		kv = kvstore.NewMemory()
		blobs = blobstore.NewMemory()
		logger.Warnf("REDIS_ADDR not set, using in-memory stores")
	}

	docs := docstore.New(blobs, logging.New("docstore", cfg.Development()))
	sessions := session.New(kv, cfg.SessionTTL)
	chain := cardano.New(cardano.Config{
		BaseURL:   cfg.BlockfrostURL,
		ProjectID: cfg.BlockfrostAPIKey,
		Logger:    logging.New("cardano", cfg.Development()),
	})

	handlers := api.New(api.Options{
		Docs:     docs,
		Sessions: sessions,
		Chain:    chain,
		Config:   cfg,
		Logger:   logger,
	})

	limiter := middleware.NewRateLimiter(kv, middleware.RateLimiterOptions{
		Window:          cfg.RateLimitWindow,
		Max:             cfg.RateLimitMax,
		StandardHeaders: &cfg.RateLimitHeaders,
		Logger:          logging.New("ratelimit", cfg.Development()),
	})
	cors := middleware.NewCORS(middleware.CORSOptions{Origin: cfg.CORSOrigin})

	rt := router.New(router.Options{
		CORS:            cors,
		Limiter:         limiter,
		TrustedIPHeader: cfg.TrustedIPHeader,
		Development:     cfg.Development(),
		Logger:          logger,
	})
	handlers.Register(rt)

	metrics := middleware.NewMetrics()
	chainHandler := middleware.Logging(logger)(metrics.Middleware(rt))

	// /metrics bypasses CORS and rate limiting.
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", chainHandler)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("Listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown")
	}
}
