package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Error codes returned by the REST boundary itself. Validation codes come
// from the payload package.
const (
	codeUnauthorized          = "UNAUTHORIZED"
	codeInvalidRequestBody    = "INVALID_REQUEST_BODY"
	codeInvalidGuildID        = "INVALID_GUILD_ID_FORMAT"
	codeMissingDefaultChannel = "MISSING_DEFAULT_CHANNEL"
	codeChannelNotFound       = "CHANNEL_NOT_FOUND"
	codeGuildNotFound         = "GUILD_NOT_FOUND"
	codePermissionDenied      = "PERMISSION_DENIED"
	codeRateLimited           = "RATE_LIMITED"
	codeGatewayUnavailable    = "GATEWAY_UNAVAILABLE"
)

// errorBody is the JSON error envelope returned for every failure.
type errorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func writeErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, errorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
}
