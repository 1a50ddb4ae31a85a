package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"datableed/pkg/api"
	"datableed/pkg/catalog"
	"datableed/pkg/config"
	"datableed/pkg/engine"
	"datableed/pkg/middleware"
	"datableed/pkg/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	// A missing key is not fatal: the engine runs in demo mode with canned
	// replies for the life of the process.
	var completer engine.Completer
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		completer = openai.NewClient(apiKey, openai.Config{
			Model:       cfg.ModelSettings.Model,
			Temperature: cfg.ModelSettings.Temperature,
			MaxTokens:   cfg.ModelSettings.MaxTokens,
			Timeout:     time.Duration(cfg.ModelSettings.TimeoutSeconds) * time.Second,
		})
		slog.Info("OpenAI client initialized", "model", cfg.ModelSettings.Model)
	} else {
		slog.Warn("OPENAI_API_KEY not set, running in demo mode")
	}

	cat, err := catalog.Load(cfg.CharactersPath)
	if err != nil {
		slog.Error("Failed to load character catalog", "error", err)
		os.Exit(1)
	}
	if cat.Len() == 0 {
		slog.Warn("Character catalog is empty, chat requests will be rejected")
	}

	eng := engine.New(cat, completer)
	handler := api.NewHandler(cat, eng)

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = middleware.DefaultOrigins()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(origins))

	handler.RegisterRoutes(r)

	port := cfg.Server.Port
	if env := os.Getenv("PORT"); env != "" {
		port = env
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr, "demo_mode", eng.DemoMode(), "characters", cat.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
