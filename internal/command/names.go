package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// SubcommandKey is the registry key of a subcommand: "parent-child", lowercased.
func SubcommandKey(parent, child string) string {
	return strings.ToLower(parent + "-" + child)
}

// CommandKey resolves the registry key of a command or autocomplete
// interaction. The bare name is used unless the first option is a subcommand.
func CommandKey(name string, opts []*discordgo.ApplicationCommandInteractionDataOption) string {
	if len(opts) > 0 && opts[0] != nil && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return SubcommandKey(name, opts[0].Name)
	}
	return name
}

// ComponentKey recovers the registry key for a component click. First match wins:
//
//  1. the first custom ID found on the referenced message's components, verbatim
//  2. the originating interaction name, normalized
//  3. the clicked component's own custom ID, normalized
//
// referenced may be nil.
func ComponentKey(referenced *discordgo.Message, originName, customID string) string {
	if referenced != nil {
		if id := firstCustomID(referenced.Components); id != "" {
			return id
		}
	}
	if originName != "" {
		return normalizeComponentName(originName)
	}
	return normalizeComponentName(customID)
}

// normalizeComponentName turns "services kill" into "services-kill".
func normalizeComponentName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}

// firstCustomID scans rows in order and elements within each row in order.
// Link buttons carry no custom ID and are skipped.
func firstCustomID(rows []discordgo.MessageComponent) string {
	for _, row := range rows {
		children, isRow := rowChildren(row)
		if !isRow {
			if id := customIDOf(row); id != "" {
				return id
			}
			continue
		}
		for _, c := range children {
			if id := customIDOf(c); id != "" {
				return id
			}
		}
	}
	return ""
}

func rowChildren(c discordgo.MessageComponent) ([]discordgo.MessageComponent, bool) {
	switch v := c.(type) {
	case *discordgo.ActionsRow:
		if v == nil {
			return nil, true
		}
		return v.Components, true
	case discordgo.ActionsRow:
		return v.Components, true
	}
	return nil, false
}

func customIDOf(c discordgo.MessageComponent) string {
	switch v := c.(type) {
	case *discordgo.Button:
		if v != nil {
			return v.CustomID
		}
	case discordgo.Button:
		return v.CustomID
	case *discordgo.SelectMenu:
		if v != nil {
			return v.CustomID
		}
	case discordgo.SelectMenu:
		return v.CustomID
	case *discordgo.TextInput:
		if v != nil {
			return v.CustomID
		}
	case discordgo.TextInput:
		return v.CustomID
	}
	return ""
}
