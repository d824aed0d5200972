package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/presencedash/external/config"
	"github.com/foxseedlab/presencedash/external/discord"
	githubimpl "github.com/foxseedlab/presencedash/external/github"
	"github.com/foxseedlab/presencedash/external/lanyard"
	"github.com/foxseedlab/presencedash/external/web"
	"github.com/foxseedlab/presencedash/internal/catalog"
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/dashboard"
	"github.com/foxseedlab/presencedash/internal/fanout"
	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "user_id", cfg.DiscordUserID)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching presence dashboard")
	run(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	catalog.RegisterDI(injector)
	lanyard.RegisterDI(injector)
	githubimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	presence.RegisterDI(injector)
	fanout.RegisterDI(injector)
	github.RegisterDI(injector)
	dashboard.RegisterDI(injector)
	web.RegisterDI(injector)

	return injector
}

func run(injector do.Injector) {
	link, err := do.Invoke[*presence.Link](injector)
	if err != nil {
		slog.Error("failed to resolve presence link", "error", err)
		os.Exit(1)
	}
	hub, err := do.Invoke[*fanout.Hub](injector)
	if err != nil {
		slog.Error("failed to resolve fanout hub", "error", err)
		os.Exit(1)
	}
	server, err := do.Invoke[*web.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	linkDone := make(chan struct{})
	go func() {
		if err := link.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("presence link stopped", "error", err)
		}
		close(linkDone)
	}()

	serverDone := make(chan struct{})
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("http server failed", "error", err)
		}
		close(serverDone)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-serverDone:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	cancel()
	<-linkDone
	hub.Close()
}
