package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"conversational-recommendation/config"
	configRedis "conversational-recommendation/config/redis"
	"conversational-recommendation/internal/observability"
	redisRepo "conversational-recommendation/internal/recommend/repository/redis"
	"conversational-recommendation/internal/taxonomy"
	"conversational-recommendation/pkg/log"
)

const (
	sweepJobTimeout  = 2 * time.Minute
	reloadJobTimeout = time.Minute
)

// main is the entry point for the background maintenance service.
// This binary keeps the session keyspace healthy and the taxonomy fresh.
//
// Pattern:
//  1. Initialize infra (same as cmd/api/main.go)
//  2. Schedule maintenance jobs via cron
//  3. Run & graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting maintenance worker...")

	// Infrastructure. The worker exists to groom the durable store, so a
	// missing Redis is a hard failure here, not a degraded mode.
	client, err := configRedis.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Error(ctx, "Failed to connect to Redis: ", err)
		return
	}
	defer configRedis.Disconnect()

	store := redisRepo.New(client, logger, redisRepo.Config{
		KeyPrefix:  cfg.Redis.KeyPrefix,
		SessionTTL: cfg.Resolver.SessionTTL,
		OpTimeout:  cfg.Redis.OpTimeout,
	})

	taxonomyProvider, err := taxonomy.NewFileProvider(logger, cfg.Taxonomy.Path, cfg.Taxonomy.DefaultLanguage)
	if err != nil {
		logger.Error(ctx, "Failed to load taxonomy: ", err)
		return
	}

	// Metrics endpoint, so the sweep gauges are scrapeable from this process.
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler: observability.MetricsHandler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "Metrics server: %v", err)
		}
	}()

	// Maintenance jobs
	sweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
		defer cancel()

		res, err := store.Sweep(jobCtx)
		if err != nil {
			logger.Errorf(jobCtx, "Session sweep: %v", err)
			return
		}
		observability.RecordSweep(res.Live, res.Repaired)
		logger.Infof(jobCtx, "Session sweep: %d live sessions, %d TTLs re-armed", res.Live, res.Repaired)
	}

	revalidate := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), reloadJobTimeout)
		defer cancel()

		if err := taxonomyProvider.Reload(jobCtx); err != nil {
			logger.Errorf(jobCtx, "Taxonomy revalidation: %v", err)
			return
		}
		tax := taxonomyProvider.Current()
		logger.Infof(jobCtx, "Taxonomy %s revalidated: %d categories, %d languages", tax.Version, len(tax.Categories), len(tax.Keywords))
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Worker.SweepSchedule, sweep); err != nil {
		logger.Error(ctx, "Failed to schedule session sweep: ", err)
		return
	}
	if _, err := scheduler.AddFunc(cfg.Worker.ReloadSchedule, revalidate); err != nil {
		logger.Error(ctx, "Failed to schedule taxonomy revalidation: ", err)
		return
	}

	// Boot pass, so the session gauges are live before the first tick.
	sweep()

	scheduler.Start()
	logger.Infof(ctx, "Maintenance worker running (sweep %s, taxonomy %s). Waiting for shutdown signal...",
		cfg.Worker.SweepSchedule, cfg.Worker.ReloadSchedule)

	<-ctx.Done()

	// Let any running job finish before tearing the process down.
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	logger.Info(context.Background(), "Maintenance worker stopped gracefully")
}
