package payload

import (
	"fmt"
	"unicode/utf8"
)

// Validation error codes returned to REST callers.
const (
	CodeMissingContent      = "MISSING_MESSAGE_CONTENT"
	CodeContentTooLong      = "CONTENT_TOO_LONG"
	CodeTooManyEmbeds       = "TOO_MANY_EMBEDS"
	CodeEmbedTitleTooLong   = "EMBED_TITLE_TOO_LONG"
	CodeEmbedDescTooLong    = "EMBED_DESCRIPTION_TOO_LONG"
	CodeTooManyEmbedFields  = "TOO_MANY_EMBED_FIELDS"
	CodeInvalidEmbedField   = "INVALID_EMBED_FIELD"
	CodeTooManyButtons      = "TOO_MANY_BUTTONS"
	CodeButtonLabelTooLong  = "BUTTON_LABEL_TOO_LONG"
	CodeInvalidButtonStyle  = "INVALID_BUTTON_STYLE"
	CodeMissingButtonURL    = "MISSING_BUTTON_URL"
	CodeUnexpectedButtonURL = "UNEXPECTED_BUTTON_URL"
	CodeMissingCustomID     = "MISSING_BUTTON_CUSTOM_ID"
	CodeUnexpectedCustomID  = "UNEXPECTED_BUTTON_CUSTOM_ID"
)

// ValidationError describes the first structural limit a message violates.
type ValidationError struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(code, message string, details map[string]any) *ValidationError {
	return &ValidationError{Code: code, Message: message, Details: details}
}

// Validate checks the message against Discord's structural limits.
// Checks run in a fixed order and stop at the first violation, so callers
// always see a deterministic error for a given message. Returns nil when
// the message is valid.
func (m *Message) Validate() *ValidationError {
	if m.Content == "" && len(m.Embeds) == 0 {
		return invalid(CodeMissingContent,
			"message must contain text content or at least one embed", nil)
	}

	// Limits are defined in characters, not bytes; multibyte content must
	// not be over-counted.
	if n := utf8.RuneCountInString(m.Content); n > MaxContentLength {
		return invalid(CodeContentTooLong,
			fmt.Sprintf("content exceeds %d characters", MaxContentLength),
			map[string]any{"length": n, "max": MaxContentLength})
	}

	if len(m.Embeds) > MaxEmbeds {
		return invalid(CodeTooManyEmbeds,
			fmt.Sprintf("at most %d embeds are allowed", MaxEmbeds),
			map[string]any{"count": len(m.Embeds), "max": MaxEmbeds})
	}

	for i, e := range m.Embeds {
		if err := validateEmbed(i, e); err != nil {
			return err
		}
	}

	if len(m.Buttons) > MaxButtons {
		return invalid(CodeTooManyButtons,
			fmt.Sprintf("at most %d buttons are allowed", MaxButtons),
			map[string]any{"count": len(m.Buttons), "max": MaxButtons})
	}

	for i, b := range m.Buttons {
		if err := validateButton(i, b); err != nil {
			return err
		}
	}

	return nil
}

func validateEmbed(index int, e Embed) *ValidationError {
	if n := utf8.RuneCountInString(e.Title); n > MaxEmbedTitleLength {
		return invalid(CodeEmbedTitleTooLong,
			fmt.Sprintf("embed title exceeds %d characters", MaxEmbedTitleLength),
			map[string]any{"embed": index, "length": n})
	}
	if n := utf8.RuneCountInString(e.Description); n > MaxEmbedDescriptionLength {
		return invalid(CodeEmbedDescTooLong,
			fmt.Sprintf("embed description exceeds %d characters", MaxEmbedDescriptionLength),
			map[string]any{"embed": index, "length": n})
	}
	if len(e.Fields) > MaxEmbedFields {
		return invalid(CodeTooManyEmbedFields,
			fmt.Sprintf("at most %d fields are allowed per embed", MaxEmbedFields),
			map[string]any{"embed": index, "count": len(e.Fields)})
	}
	for j, f := range e.Fields {
		if utf8.RuneCountInString(f.Name) > MaxFieldNameLength ||
			utf8.RuneCountInString(f.Value) > MaxFieldValueLength {
			return invalid(CodeInvalidEmbedField,
				fmt.Sprintf("field name must be at most %d characters and value at most %d",
					MaxFieldNameLength, MaxFieldValueLength),
				map[string]any{"embed": index, "field": j})
		}
	}
	return nil
}

func validateButton(index int, b Button) *ValidationError {
	if n := utf8.RuneCountInString(b.Label); n > MaxButtonLabelLength {
		return invalid(CodeButtonLabelTooLong,
			fmt.Sprintf("button label exceeds %d characters", MaxButtonLabelLength),
			map[string]any{"button": index, "length": n})
	}

	if _, ok := discordStyles[b.Style]; !ok {
		return invalid(CodeInvalidButtonStyle,
			fmt.Sprintf("unknown button style %q", b.Style),
			map[string]any{"button": index, "style": string(b.Style)})
	}

	if b.Style == StyleLink {
		if b.URL == "" {
			return invalid(CodeMissingButtonURL,
				"link buttons require a url",
				map[string]any{"button": index})
		}
		if b.CustomID != "" {
			return invalid(CodeUnexpectedCustomID,
				"link buttons must not carry a custom id",
				map[string]any{"button": index})
		}
		return nil
	}

	if b.CustomID == "" {
		return invalid(CodeMissingCustomID,
			"non-link buttons require a custom id",
			map[string]any{"button": index})
	}
	if b.URL != "" {
		return invalid(CodeUnexpectedButtonURL,
			"only link buttons may carry a url",
			map[string]any{"button": index})
	}
	return nil
}
