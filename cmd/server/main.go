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

	"mango.movies/mango/internal/api"
	"mango.movies/mango/internal/config"
	"mango.movies/mango/internal/core"
	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/streaming"
)

func main() {
	// Load configuration
	cfg, err := config.LoadServerConfig()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}
	if !cfg.EnvFileLoaded {
		logging.Debug().Msg("No .env file found, relying on environment variables")
	}
	for _, w := range cfg.Warnings {
		logging.Warn().Msg(w)
	}
	logging.Debug().Str("model", cfg.GeminiModel).Msg("Service starting in debug mode")

	// Initialize LLM service
	llmService, err := core.NewLLMService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize LLM service")
	}
	defer llmService.Close()

	// Streaming catalog, guarded by a circuit breaker
	catalog := streaming.NewBreakerClient(streaming.NewClient(cfg.RapidAPIKey, cfg.StreamingAPIURL, cfg.StreamingCountry))
	resolver := streaming.NewResolver(catalog, cfg.StreamingCountry)

	recommendService := core.NewRecommendService(llmService)
	reviewService := core.NewReviewService(llmService)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(recommendService, reviewService, resolver)
	mwConfig := api.DefaultMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.CORSAllowedOrigins
	mwConfig.RateLimitRequests = cfg.RateLimitPerMinute
	router := api.NewRouter(apiHandler, mwConfig)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", serverAddr).Msg("Starting server. Press Ctrl+C to quit.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Str("addr", serverAddr).Msg("Could not listen")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
	}

	logging.Info().Msg("Server exiting gracefully")
}
