// RiftScout - live game scouting service for League of Legends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/riftscout/internal/api"
	"github.com/riftscout/internal/config"
	"github.com/riftscout/internal/data"
	"github.com/riftscout/internal/logging"
	"github.com/riftscout/internal/services/riot"
	"github.com/riftscout/internal/services/scout"
	"github.com/riftscout/internal/storage"
	"github.com/riftscout/pkg/healthcheck"
)

func init() {
	// GC runs more often, trading CPU for a smaller heap
	debug.SetGCPercent(50)
	debug.SetMemoryLimit(256 * 1024 * 1024) // 256MB
}

func main() {
	// Health check flag for Docker
	healthFlag := flag.Bool("health", false, "Run health check")
	flag.Parse()

	if *healthFlag {
		if err := runHealthCheck(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config invalid: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Infow("starting riftscout", "http_addr", cfg.HTTPAddr, "health_addr", cfg.HealthAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := storage.NewRedisClient(ctx, cfg, log)
	defer redisClient.Close()

	lanes := data.NewLaneTable(cfg.LanesDataPath())
	if err := lanes.Load(); err != nil {
		log.Warnw("lane table unavailable, roles fall back to overflow", "path", cfg.LanesDataPath(), "error", err)
	} else {
		log.Infow("lane table loaded", "champions", lanes.Len())
	}

	riotClient := riot.NewClient(cfg, redisClient, log)
	svc := scout.NewService(riotClient, lanes, redisClient, scout.Options{
		HistoryCount: cfg.HistoryCount,
		HistoryQueue: cfg.HistoryQueue,
		Concurrency:  cfg.FetchConcurrency,
		CacheTTL:     cfg.LiveCacheTTL,
	}, log)

	var checks []healthcheck.Check
	if redisClient.Enabled() {
		checks = append(checks, healthcheck.Check{Name: "redis", Fn: redisClient.Ping})
	}
	healthServer := healthcheck.New(cfg.HealthAddr, checks...)
	go func() {
		if err := healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("health server error", "error", err)
		}
	}()

	apiServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(svc, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("api server error", "error", err)
			stop()
		}
	}()

	log.Info("riftscout running")
	<-ctx.Done()
	log.Info("shutting down")

	// Graceful shutdown with short timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warnw("api shutdown", "error", err)
	}
	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Warnw("health shutdown", "error", err)
	}

	log.Info("stopped")
}

// runHealthCheck performs a quick health check
func runHealthCheck() error {
	addr := os.Getenv("HEALTH_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get("http://" + addr + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: %d", resp.StatusCode)
	}
	return nil
}
