package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-chi/chi/v5"

	"github.com/sglre6355/relaybot/internal/gateway"
	"github.com/sglre6355/relaybot/internal/outbound"
	"github.com/sglre6355/relaybot/internal/payload"
)

// sendResponse is the success body for POST /send.
type sendResponse struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
}

// handleSend validates the posted message and hands it to the outbound
// pipeline. The target channel always comes from configuration; any
// caller-supplied channel is ignored.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var msg payload.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody,
			"request body is not a valid message object")
		return
	}

	if verr := msg.Validate(); verr != nil {
		writeErrorDetails(w, http.StatusBadRequest, verr.Code, verr.Message, verr.Details)
		return
	}

	if s.cfg.DefaultChannelID == "" {
		writeError(w, http.StatusInternalServerError, codeMissingDefaultChannel,
			"no default channel is configured")
		return
	}

	messageID, err := s.sender.Send(r.Context(), s.cfg.DefaultChannelID, &msg)
	if err != nil {
		s.writeSendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{
		MessageID: messageID,
		ChannelID: s.cfg.DefaultChannelID,
	})
}

func (s *Server) writeSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, outbound.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, codeChannelNotFound,
			"the target channel could not be resolved")
	case errors.Is(err, outbound.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, codePermissionDenied,
			"the bot is not permitted to send messages to the target channel")
	case errors.Is(err, outbound.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, codeRateLimited,
			"the platform rate limited the send beyond the retry budget")
	default:
		slog.Error("send failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeGatewayUnavailable,
			"the message could not be delivered to the gateway")
	}
}

// handleGuilds lists the guilds the bot is a member of.
func (s *Server) handleGuilds(w http.ResponseWriter, r *http.Request) {
	guilds, err := s.browser.Guilds(r.Context())
	if err != nil {
		slog.Error("failed to list guilds", "error", err)
		writeError(w, http.StatusInternalServerError, codeGatewayUnavailable,
			"guild list is unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]gateway.GuildInfo{"guilds": guilds})
}

// handleChannels lists channels for one guild. The guild id must be a
// 17-19 digit snowflake.
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	if !validSnowflake(guildID) {
		writeError(w, http.StatusBadRequest, codeInvalidGuildID,
			"guild id must be a 17-19 digit numeric identifier")
		return
	}

	channels, err := s.browser.Channels(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, outbound.ErrChannelNotFound) {
			writeError(w, http.StatusNotFound, codeGuildNotFound, "unknown guild")
			return
		}
		slog.Error("failed to list channels", "guild", guildID, "error", err)
		writeError(w, http.StatusInternalServerError, codeGatewayUnavailable,
			"channel list is unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]gateway.ChannelInfo{"channels": channels})
}

// validSnowflake checks the 17-19 digit decimal snowflake format.
func validSnowflake(id string) bool {
	if len(id) < 17 || len(id) > 19 {
		return false
	}
	_, err := snowflake.Parse(id)
	return err == nil
}
