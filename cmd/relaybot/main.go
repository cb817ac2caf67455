package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sglre6355/relaybot/internal/bot"
	_ "github.com/sglre6355/relaybot/internal/modules/core"
	_ "github.com/sglre6355/relaybot/internal/modules/static"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/relaybot
var version = "dev"

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	scope := "global"
	if cfg.DefaultGuildID != "" {
		scope = cfg.DefaultGuildID
	}
	slog.Info("starting relaybot",
		"version", version,
		"api_addr", cfg.APIAddr,
		"command_scope", scope,
	)

	b := bot.NewBot(cfg)
	b.LoadModules()

	// Start brings up the gateway session, the dispatch loop, and the REST
	// listener; they run side by side until a termination signal arrives.
	if err := b.Start(); err != nil {
		slog.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("completed shutdown")
}
