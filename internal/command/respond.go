package command

import (
	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0x5865f2

// --- Interaction responses ---

// Respond sends a public message response to an interaction.
func Respond(s Session, in Interaction, content string) error {
	return s.InteractionRespond(in.Raw(), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// RespondEphemeral sends an ephemeral message response to an interaction.
func RespondEphemeral(s Session, in Interaction, content string) error {
	return s.InteractionRespond(in.Raw(), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondEmbed sends a public embed response, optionally with component rows.
func RespondEmbed(s Session, in Interaction, embed *discordgo.MessageEmbed, rows ...discordgo.MessageComponent) error {
	return s.InteractionRespond(in.Raw(), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: rows,
		},
	})
}

// RespondChoices answers an autocomplete request. Discord accepts at most 25 choices.
func RespondChoices(s Session, in *AutocompleteInteraction, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if len(choices) > 25 {
		choices = choices[:25]
	}
	return s.InteractionRespond(in.Raw(), &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// UpdateMessage replaces the message a clicked component belongs to.
func UpdateMessage(s Session, in *ComponentInteraction, content string, embeds []*discordgo.MessageEmbed, rows ...discordgo.MessageComponent) error {
	if rows == nil {
		rows = []discordgo.MessageComponent{}
	}
	return s.InteractionRespond(in.Raw(), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: rows,
		},
	})
}

// ButtonRow builds a single action row.
func ButtonRow(buttons ...discordgo.Button) discordgo.ActionsRow {
	row := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, 0, len(buttons))}
	for _, b := range buttons {
		row.Components = append(row.Components, b)
	}
	return row
}
