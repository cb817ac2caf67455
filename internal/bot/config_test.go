package bot

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token-123")
	t.Setenv("API_TOKEN", "test-api-token")
}

func TestLoadConfig_WithValidTokens(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DiscordToken != "test-token-123" {
		t.Errorf("expected token %q, got %q", "test-token-123", cfg.DiscordToken)
	}
	if cfg.APIToken != "test-api-token" {
		t.Errorf("expected api token %q, got %q", "test-api-token", cfg.APIToken)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIAddr != ":8080" {
		t.Errorf("expected default api addr %q, got %q", ":8080", cfg.APIAddr)
	}
	if cfg.InteractionDeadline != 3*time.Second {
		t.Errorf("expected default deadline 3s, got %v", cfg.InteractionDeadline)
	}
	if cfg.SendRetryLimit != 5 {
		t.Errorf("expected default retry limit 5, got %d", cfg.SendRetryLimit)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INTERACTION_DEADLINE", "1500ms")
	t.Setenv("SEND_RETRY_LIMIT", "3")
	t.Setenv("DEFAULT_CHANNEL_ID", "111111111111111111")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.InteractionDeadline != 1500*time.Millisecond {
		t.Errorf("expected deadline 1.5s, got %v", cfg.InteractionDeadline)
	}
	if cfg.SendRetryLimit != 3 {
		t.Errorf("expected retry limit 3, got %d", cfg.SendRetryLimit)
	}
	if cfg.DefaultChannelID != "111111111111111111" {
		t.Errorf("expected default channel to be set, got %q", cfg.DefaultChannelID)
	}
}

func TestLoadConfig_WithEmptyToken(t *testing.T) {
	// Clear the environment variable
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("API_TOKEN", "test-api-token")

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for missing token, got nil")
	}
}
