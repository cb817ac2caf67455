package core

import (
	"context"
	"fmt"

	"github.com/sglre6355/relaybot/internal/command"
	"github.com/sglre6355/relaybot/internal/status"
)

const colorGreen = 0x08C404

func handlePing(ctx context.Context, inv *command.Invocation) error {
	return inv.RespondText("Pong!", false)
}

func handleEcho(ctx context.Context, inv *command.Invocation) error {
	text := inv.StringParam("text")
	ephemeral := inv.BoolParam("ephemeral")
	return inv.RespondText(text, ephemeral)
}

func (m *Module) handleStatus(ctx context.Context, inv *command.Invocation) error {
	metrics, err := m.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect system metrics: %w", err)
	}

	description := fmt.Sprintf(
		"CPU: %.1f%%\nMemory: %.1f%% (%s / %s)\nDisk: %.1f%% (%s / %s)",
		metrics.CPUPercent,
		metrics.MemoryPercent,
		status.FormatBytes(metrics.MemoryUsed),
		status.FormatBytes(metrics.MemoryTotal),
		metrics.DiskPercent,
		status.FormatBytes(metrics.DiskUsed),
		status.FormatBytes(metrics.DiskTotal),
	)

	return inv.RespondEmbed("System Status", description, colorGreen, false)
}
