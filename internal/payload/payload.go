// Package payload defines the outbound message model and its validation
// against Discord's structural limits.
package payload

import "github.com/bwmarrin/discordgo"

// Discord structural limits for outbound messages.
const (
	MaxContentLength          = 2000
	MaxEmbeds                 = 10
	MaxEmbedTitleLength       = 256
	MaxEmbedDescriptionLength = 4096
	MaxEmbedFields            = 25
	MaxFieldNameLength        = 256
	MaxFieldValueLength       = 1024
	MaxButtons                = 25
	MaxButtonLabelLength      = 80
)

// Message is an outbound message request. At least one of Content and
// Embeds must carry content.
type Message struct {
	Content string   `json:"content,omitempty"`
	Embeds  []Embed  `json:"embeds,omitempty"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Embed is a rich-card attachment.
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Field is a name/value pair inside an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// ButtonStyle selects the visual style and click behavior of a button.
type ButtonStyle string

// Valid button styles. Link buttons open a URL directly; every other style
// routes a click back through the gateway as a component interaction
// carrying the button's custom id.
const (
	StylePrimary   ButtonStyle = "primary"
	StyleSecondary ButtonStyle = "secondary"
	StyleSuccess   ButtonStyle = "success"
	StyleDanger    ButtonStyle = "danger"
	StyleLink      ButtonStyle = "link"
)

// Button is an interactive message component.
type Button struct {
	Label    string      `json:"label"`
	Style    ButtonStyle `json:"style"`
	CustomID string      `json:"custom_id,omitempty"`
	URL      string      `json:"url,omitempty"`
	Emoji    string      `json:"emoji,omitempty"`
	Disabled bool        `json:"disabled,omitempty"`
}

// discordStyles maps wire styles to discordgo constants.
var discordStyles = map[ButtonStyle]discordgo.ButtonStyle{
	StylePrimary:   discordgo.PrimaryButton,
	StyleSecondary: discordgo.SecondaryButton,
	StyleSuccess:   discordgo.SuccessButton,
	StyleDanger:    discordgo.DangerButton,
	StyleLink:      discordgo.LinkButton,
}

// ToDiscord converts a validated message into the discordgo send type.
// Buttons are packed into action rows of five, the platform's row width.
func (m *Message) ToDiscord() *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: m.Content,
	}

	for _, e := range m.Embeds {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		send.Embeds = append(send.Embeds, embed)
	}

	for start := 0; start < len(m.Buttons); start += 5 {
		end := min(start+5, len(m.Buttons))

		row := discordgo.ActionsRow{}
		for _, b := range m.Buttons[start:end] {
			button := discordgo.Button{
				Label:    b.Label,
				Style:    discordStyles[b.Style],
				CustomID: b.CustomID,
				URL:      b.URL,
				Disabled: b.Disabled,
			}
			if b.Emoji != "" {
				button.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
			}
			row.Components = append(row.Components, button)
		}
		send.Components = append(send.Components, row)
	}

	return send
}
