package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"conversational-recommendation/config"
	configRedis "conversational-recommendation/config/redis"
	_ "conversational-recommendation/docs" // Swagger docs
	"conversational-recommendation/internal/extractor"
	"conversational-recommendation/internal/httpserver"
	"conversational-recommendation/internal/observability"
	"conversational-recommendation/internal/recommend/repository"
	cachedRepo "conversational-recommendation/internal/recommend/repository/cached"
	memoryRepo "conversational-recommendation/internal/recommend/repository/memory"
	redisRepo "conversational-recommendation/internal/recommend/repository/redis"
	"conversational-recommendation/internal/registry"
	"conversational-recommendation/internal/taxonomy"
	"conversational-recommendation/pkg/catalog"
	"conversational-recommendation/pkg/log"
)

// @title       Conversational Recommendation API
// @description Session-aware diversification resolver over a catalog ranking engine.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Conversational Recommendation API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Catalog engine: %s", cfg.Catalog.BaseURL)

	// 3. Session store. Redis is the durable store; when it cannot be built
	// the registry serves the in-memory fallback so the API still answers,
	// with history scoped to this process's lifetime.
	reg := registry.New(logger, registry.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Cooldown:         cfg.Breaker.Cooldown,
	})
	defer func() {
		if err := reg.Shutdown(context.Background()); err != nil {
			logger.Warnf(context.Background(), "Registry shutdown: %v", err)
		}
	}()

	redisBuilder := func(ctx context.Context) (any, error) {
		client, err := configRedis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisRepo.New(client, logger, redisRepo.Config{
			KeyPrefix:  cfg.Redis.KeyPrefix,
			SessionTTL: cfg.Resolver.SessionTTL,
			OpTimeout:  cfg.Redis.OpTimeout,
		}), nil
	}

	if err := reg.Register("session-store", registry.Component{
		// Redis behind an in-process read cache. Fails when the cache is
		// disabled (session_cache_size 0), which steps down to the baseline.
		Enhanced: func(ctx context.Context) (any, error) {
			inner, err := redisBuilder(ctx)
			if err != nil {
				return nil, err
			}
			return cachedRepo.New(inner.(repository.SessionRepository), logger, cachedRepo.Config{
				Size:       cfg.Resolver.SessionCacheSize,
				SessionTTL: cfg.Resolver.SessionTTL,
			})
		},
		Baseline: redisBuilder,
		Fallback: func(ctx context.Context) (any, error) {
			observability.SetStoreFallback(true)
			logger.Warn(ctx, "Session store degraded to in-memory, history will not survive a restart")
			return memoryRepo.New(logger, memoryRepo.Config{
				SessionTTL: cfg.Resolver.SessionTTL,
			}), nil
		},
	}); err != nil {
		logger.Error(ctx, "Failed to register session store: ", err)
		return
	}

	sessionStore, err := registry.GetAs[repository.SessionRepository](ctx, reg, "session-store")
	if err != nil {
		logger.Error(ctx, "Failed to provision session store: ", err)
		return
	}

	// 4. Taxonomy
	taxonomyProvider, err := taxonomy.NewFileProvider(logger, cfg.Taxonomy.Path, cfg.Taxonomy.DefaultLanguage)
	if err != nil {
		logger.Error(ctx, "Failed to load taxonomy: ", err)
		return
	}
	taxonomyProvider.StartPeriodicReload(ctx, cfg.Taxonomy.ReloadInterval)

	tax := taxonomyProvider.Current()
	logger.Infof(ctx, "Taxonomy %s loaded: %d categories, %d languages", tax.Version, len(tax.Categories), len(tax.Keywords))

	// 5. Catalog ranking engine client
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.Catalog.BaseURL,
		APIKey:     cfg.Catalog.APIKey,
		Timeout:    cfg.Catalog.Timeout,
		RatePerSec: cfg.Catalog.RatePerSec,
		Burst:      cfg.Catalog.Burst,
	})

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:        logger,
		Port:          cfg.HTTPServer.Port,
		Mode:          cfg.HTTPServer.Mode,
		Environment:   cfg.Environment.Name,
		SessionStore:  sessionStore,
		CatalogClient: catalogClient,
		Taxonomy:      taxonomyProvider,
		Extractor:     extractor.New(),
		Resolver:      cfg.Resolver,
		RateLimit:     cfg.RateLimit,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
