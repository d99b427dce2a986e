package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/cohortlab/retain/internal/api"
	"github.com/cohortlab/retain/internal/api/handlers"
	"github.com/cohortlab/retain/pkg/config"
	"github.com/cohortlab/retain/pkg/logger"
	"github.com/cohortlab/retain/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                 - Health check
  POST /api/fit/single         - Fit one cohort of fractional retention values
  POST /api/fit/multi          - Fit a stack of cohorts of absolute counts
  POST /api/predict/retention  - Retention probability for one period
  POST /api/predict/survival   - Projected survival curve
  POST /api/valuation/derl     - Discounted expected residual lifetime

Example:
  go run ./cmd/retain api
  go run ./cmd/retain api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== retain API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to Redis (optional; a disabled client turns caching off)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	if redisClient.Enabled() {
		log.Info("Connected to Redis, fit results will be cached")
	} else {
		log.Info("Redis disabled, fit caching off")
	}

	// 4. Create fit cache
	fitCache := redis.NewCache(redisClient, "retain")

	// 5. Create handler
	retentionHandler := handlers.NewRetentionHandler(fitCache, cfg.API.FitCacheTTL, log)

	// 6. Create rate limiter for the fitting endpoints
	limiter := rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst)

	// 7. Create router
	router := api.NewRouter(retentionHandler, limiter, log)

	// 8. Create server
	server := api.New(cfg, log, router)

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/fit/single")
	fmt.Println("  POST /api/fit/multi")
	fmt.Println("  POST /api/predict/retention")
	fmt.Println("  POST /api/predict/survival")
	fmt.Println("  POST /api/valuation/derl")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
