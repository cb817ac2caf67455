package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sglre6355/relaybot/internal/api"
	"github.com/sglre6355/relaybot/internal/command"
	"github.com/sglre6355/relaybot/internal/dispatch"
	"github.com/sglre6355/relaybot/internal/gateway"
	"github.com/sglre6355/relaybot/internal/outbound"
)

// shutdownTimeout bounds the graceful API server shutdown.
const shutdownTimeout = 5 * time.Second

// Bot wires the gateway session, command registry, interaction dispatcher,
// outbound pipeline, and REST boundary together and manages their
// lifecycle.
type Bot struct {
	config     *Config
	gateway    *gateway.Session
	commands   *command.Registry
	dispatcher *dispatch.Dispatcher
	apiServer  *api.Server
	modules    []Module

	cancelDispatch context.CancelFunc
	dispatchDone   chan struct{}
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	return &Bot{
		config:   cfg,
		commands: command.NewRegistry(),
		modules:  make([]Module, 0),
	}
}

// LoadModules loads modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = Modules()
}

// Commands returns the bot's command registry.
func (b *Bot) Commands() *command.Registry {
	return b.commands
}

// Start initializes the bot, connects to Discord, registers commands, and
// starts the dispatch loop and API server.
func (b *Bot) Start() error {
	session, err := gateway.New(b.config.DiscordToken, gateway.DefaultEventBufferSize)
	if err != nil {
		return err
	}
	b.gateway = session

	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}
	b.collectCommands()

	b.dispatcher = dispatch.New(b.commands, b.config.InteractionDeadline)

	pipeline := outbound.NewPipeline(b.gateway, b.config.SendRetryLimit)
	b.apiServer = api.NewServer(api.Config{
		Addr:             b.config.APIAddr,
		Token:            b.config.APIToken,
		DefaultChannelID: b.config.DefaultChannelID,
	}, pipeline, b.gateway)

	ctx, cancel := context.WithCancel(context.Background())
	b.cancelDispatch = cancel
	b.dispatchDone = make(chan struct{})
	go func() {
		defer close(b.dispatchDone)
		b.dispatcher.Run(ctx, b.gateway.Events())
	}()

	go func() {
		if err := b.apiServer.Start(); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()

	if err := b.gateway.Open(); err != nil {
		return err
	}

	if err := b.gateway.RegisterCommands(b.commands.List(), b.config.DefaultGuildID); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	user := b.gateway.BotUser()
	slog.Info("started bot",
		"user_id", user.ID,
		"username", user.Username,
		"commands", b.commands.Len(),
	)

	return nil
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	if b.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := b.apiServer.Shutdown(ctx); err != nil {
			slog.Warn("failed to shutdown api server", "error", err)
		}
	}

	if b.gateway != nil {
		if err := b.gateway.Close(); err != nil {
			return err
		}
	}

	if b.cancelDispatch != nil {
		b.cancelDispatch()
		<-b.dispatchDone
		b.dispatcher.Wait()
	}

	return nil
}

// initModules initializes all loaded modules.
func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Config: b.config,
	}

	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// collectCommands registers every module's descriptors with the command
// registry.
func (b *Bot) collectCommands() {
	for _, mod := range b.modules {
		for _, desc := range mod.Commands() {
			b.commands.Register(desc)
		}
	}
}
