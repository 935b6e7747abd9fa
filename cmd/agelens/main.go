// Command agelens serves the age-inclusive accessibility auditor.
//
// Usage:
//
//	agelens                       # HTTP service on :8080
//	agelens -config agelens.yaml  # HTTP service with YAML config
//	MCP_TRANSPORT=stdio agelens   # MCP server over stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/infrajoy/agelens/api"
	"github.com/infrajoy/agelens/config"
	"github.com/infrajoy/agelens/lens"
	"github.com/infrajoy/agelens/store"
)

func main() {
	configPath := flag.String("config", "", "path to agelens.yaml config file")
	flag.Parse()

	logLevel := env("LOG_LEVEL", "info")
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, *configPath); err != nil {
		logger.Error("agelens: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if listen := os.Getenv("LISTEN"); listen != "" {
		cfg.Listen = listen
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}

	svc := lens.New(lens.Config{
		Fetch:    cfg.FetchConfig(),
		MaxPages: cfg.Crawl.MaxPages,
		Logger:   logger,
	})

	if env("MCP_TRANSPORT", "") == "stdio" {
		return runMCP(ctx, svc)
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "audits.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	server := api.New(api.Config{
		Lens:         svc,
		Store:        st,
		Remedy:       cfg.RemedyConfig(),
		PasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func runMCP(ctx context.Context, svc *lens.Lens) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "agelens",
		Version: "1.0.0",
	}, nil)
	svc.RegisterMCP(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
