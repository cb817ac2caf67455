package bot

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	APIAddr  string `env:"API_ADDR" envDefault:":8080"`
	APIToken string `env:"API_TOKEN,notEmpty"`

	// DefaultGuildID scopes command registration to one guild when set;
	// empty registers commands globally (slow propagation).
	DefaultGuildID string `env:"DEFAULT_GUILD_ID"`
	// DefaultChannelID is the target channel for REST-initiated sends.
	DefaultChannelID string `env:"DEFAULT_CHANNEL_ID"`

	InteractionDeadline time.Duration `env:"INTERACTION_DEADLINE" envDefault:"3s"`
	SendRetryLimit      int           `env:"SEND_RETRY_LIMIT" envDefault:"5"`

	// StaticCommandsFile points at the YAML file of static-reply commands;
	// empty disables the static module.
	StaticCommandsFile string `env:"STATIC_COMMANDS_FILE"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
