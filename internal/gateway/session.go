// Package gateway adapts the discordgo session to the rest of the system:
// inbound events become typed dispatch events on a channel, and outbound
// sends go through a narrow send surface.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/relaybot/internal/command"
	"github.com/sglre6355/relaybot/internal/dispatch"
	"github.com/sglre6355/relaybot/internal/outbound"
	"github.com/sglre6355/relaybot/internal/payload"
)

// DefaultEventBufferSize is the default buffer size for the inbound event
// channel.
const DefaultEventBufferSize = 100

// Compile-time check that Session implements the pipeline's send surface.
var _ outbound.Gateway = (*Session)(nil)

// GuildInfo is a guild summary for REST introspection.
type GuildInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChannelInfo is a channel summary for REST introspection.
type ChannelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// Session owns the live Discord connection. It publishes typed inbound
// events on a buffered channel consumed by the dispatch loop.
type Session struct {
	session *discordgo.Session
	events  chan dispatch.Event

	closed bool
	mu     sync.RWMutex
}

// New creates a Session for the given bot token. The connection is not
// opened until Open is called.
func New(token string, bufferSize int) (*Session, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	// Surface 429s to the outbound pipeline instead of blocking inside
	// discordgo's own rate limiter.
	session.ShouldRetryOnRateLimit = false

	g := &Session{
		session: session,
		events:  make(chan dispatch.Event, bufferSize),
	}

	session.AddHandler(g.handleReady)
	session.AddHandler(g.handleDisconnect)
	session.AddHandler(g.handleInteraction)

	return g, nil
}

// Events returns the inbound event channel.
func (g *Session) Events() <-chan dispatch.Event {
	return g.events
}

// Open connects to the gateway.
func (g *Session) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Close disconnects from the gateway and closes the event channel.
func (g *Session) Close() error {
	err := g.session.Close()

	g.mu.Lock()
	if !g.closed {
		g.closed = true
		close(g.events)
	}
	g.mu.Unlock()

	return err
}

// BotUser returns the connected bot user, or nil before Open.
func (g *Session) BotUser() *discordgo.User {
	return g.session.State.User
}

// publish places an event on the inbound channel. Non-blocking: if the
// buffer is full the event is dropped with a warning.
func (g *Session) publish(ev dispatch.Event) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.closed {
		slog.Warn("attempted to publish to closed event channel", "kind", ev.Kind)
		return
	}

	select {
	case g.events <- ev:
	default:
		slog.Warn("event buffer full, dropping event", "kind", ev.Kind)
	}
}

func (g *Session) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	g.publish(dispatch.Event{Kind: dispatch.EventReady})
}

func (g *Session) handleDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	g.publish(dispatch.Event{Kind: dispatch.EventDisconnect})
}

// handleInteraction converts command and component interactions into
// invocation events. Other interaction kinds are not command invocations
// and are ignored.
func (g *Session) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var (
		commandName string
		options     []*discordgo.ApplicationCommandInteractionDataOption
	)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		commandName = data.Name
		options = data.Options
	case discordgo.InteractionMessageComponent:
		// Non-link button clicks come back with the custom id in place of
		// a command name.
		commandName = i.MessageComponentData().CustomID
	default:
		return
	}

	inv := command.NewInvocation(i.ID, commandName, command.NewDiscordResponder(s, i.Interaction))
	inv.GuildID = i.GuildID
	inv.ChannelID = i.ChannelID

	if i.Member != nil && i.Member.User != nil {
		inv.CallerID = i.Member.User.ID
		inv.CallerName = i.Member.User.Username
	} else if i.User != nil {
		inv.CallerID = i.User.ID
		inv.CallerName = i.User.Username
	}

	g.publish(dispatch.Event{
		Kind:       dispatch.EventInteraction,
		Invocation: inv,
		Options:    options,
	})
}

// RegisterCommands registers descriptors with Discord. A non-empty guildID
// registers guild-scoped commands, which propagate near-instantly; an
// empty guildID registers globally, which can take up to an hour.
func (g *Session) RegisterCommands(descs []command.Descriptor, guildID string) error {
	for _, desc := range descs {
		_, err := g.session.ApplicationCommandCreate(
			g.session.State.User.ID,
			guildID,
			desc.ApplicationCommand(),
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", desc.Name, err)
		}
		slog.Debug("registered command", "command", desc.Name, "guild", guildID)
	}
	return nil
}

// Guilds lists the guilds the bot is a member of.
func (g *Session) Guilds(ctx context.Context) ([]GuildInfo, error) {
	guilds := make([]GuildInfo, 0, len(g.session.State.Guilds))
	for _, guild := range g.session.State.Guilds {
		guilds = append(guilds, GuildInfo{ID: guild.ID, Name: guild.Name})
	}
	return guilds, nil
}

// Channels lists the text channels of one guild.
func (g *Session) Channels(ctx context.Context, guildID string) ([]ChannelInfo, error) {
	channels, err := g.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownEntity(err) {
			return nil, fmt.Errorf("%w: guild %s", outbound.ErrChannelNotFound, guildID)
		}
		return nil, fmt.Errorf("failed to list channels for guild %s: %w", guildID, err)
	}

	infos := make([]ChannelInfo, 0, len(channels))
	for _, ch := range channels {
		infos = append(infos, ChannelInfo{ID: ch.ID, Name: ch.Name, Type: int(ch.Type)})
	}
	return infos, nil
}

// ResolveChannel verifies the channel exists, preferring gateway state
// over a REST round trip.
func (g *Session) ResolveChannel(ctx context.Context, channelID string) error {
	if _, err := g.session.State.Channel(channelID); err == nil {
		return nil
	}
	if _, err := g.session.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
	}
	return nil
}

// CanSend reports whether the bot may send messages to the channel.
func (g *Session) CanSend(ctx context.Context, channelID string) (bool, error) {
	perms, err := g.session.State.UserChannelPermissions(g.session.State.User.ID, channelID)
	if err != nil {
		perms, err = g.session.UserChannelPermissions(
			g.session.State.User.ID, channelID, discordgo.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("failed to fetch channel permissions: %w", err)
		}
	}
	return perms&discordgo.PermissionSendMessages != 0, nil
}

// Send delivers one message and returns the platform message id. Platform
// rate limiting surfaces as *outbound.RateLimitError.
func (g *Session) Send(ctx context.Context, channelID string, msg *payload.Message) (string, error) {
	sent, err := g.session.ChannelMessageSendComplex(
		channelID, msg.ToDiscord(), discordgo.WithContext(ctx))
	if err != nil {
		var rl *discordgo.RateLimitError
		if errors.As(err, &rl) {
			return "", &outbound.RateLimitError{RetryAfter: rl.RetryAfter}
		}
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return sent.ID, nil
}

// isUnknownEntity reports whether err is Discord's unknown guild/channel
// REST error.
func isUnknownEntity(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Message == nil {
		return false
	}
	switch rest.Message.Code {
	case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownGuild:
		return true
	}
	return false
}
