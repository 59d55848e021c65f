package command

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestSubcommandKey(t *testing.T) {
	cases := []struct {
		parent, child, want string
	}{
		{"admin", "ban", "admin-ban"},
		{"Admin", "BAN", "admin-ban"},
		{"Setup", "Config", "setup-config"},
		{"", "x", "-x"},
		{"a b", "C", "a b-c"},
	}
	for _, tc := range cases {
		got := SubcommandKey(tc.parent, tc.child)
		assert.Equal(t, tc.want, got, "%q/%q", tc.parent, tc.child)
		assert.Equal(t, strings.ToLower(tc.parent)+"-"+strings.ToLower(tc.child), got)
		assert.Equal(t, got, SubcommandKey(tc.parent, tc.child), "stable")
		assert.Equal(t, got, SubcommandKey(strings.ToUpper(tc.parent), strings.ToUpper(tc.child)), "case-insensitive inputs")
	}
}

func TestCommandKey(t *testing.T) {
	t.Run("no options keeps name unchanged", func(t *testing.T) {
		assert.Equal(t, "Services", CommandKey("Services", nil))
	})

	t.Run("non-subcommand first option keeps name", func(t *testing.T) {
		opts := []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "service", Type: discordgo.ApplicationCommandOptionString, Value: "anify-auth"},
		}
		assert.Equal(t, "history", CommandKey("history", opts))
	})

	t.Run("subcommand option builds composite", func(t *testing.T) {
		assert.Equal(t, "admin-ban", CommandKey("admin", []*discordgo.ApplicationCommandInteractionDataOption{subcommand("ban")}))
		assert.Equal(t, "admin-ban", CommandKey("Admin", []*discordgo.ApplicationCommandInteractionDataOption{subcommand("Ban")}))
	})

	t.Run("subcommand group is not composed", func(t *testing.T) {
		opts := []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "roles", Type: discordgo.ApplicationCommandOptionSubCommandGroup},
		}
		assert.Equal(t, "admin", CommandKey("admin", opts))
	})
}

func TestComponentKeyTierOne(t *testing.T) {
	referenced := &discordgo.Message{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.Button{Label: "Docs", Style: discordgo.LinkButton, URL: "https://anify.tv"},
				&discordgo.Button{Label: "Delete", CustomID: "confirm-delete"},
				&discordgo.Button{Label: "Keep", CustomID: "cancel-delete"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.SelectMenu{CustomID: "second-row"},
			}},
		},
	}

	assert.Equal(t, "confirm-delete", ComponentKey(referenced, "Something Else", "Clicked Button"))
}

func TestComponentKeyTierOneIsVerbatim(t *testing.T) {
	referenced := &discordgo.Message{
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "Mixed Case ID"},
			}},
		},
	}
	assert.Equal(t, "Mixed Case ID", ComponentKey(referenced, "", "x"))
}

func TestComponentKeyScansRowsInOrder(t *testing.T) {
	referenced := &discordgo.Message{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.Button{Style: discordgo.LinkButton, URL: "https://example.com"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.SelectMenu{CustomID: "pick-service"},
				&discordgo.Button{CustomID: "later"},
			}},
		},
	}
	assert.Equal(t, "pick-service", ComponentKey(referenced, "history", "refresh"))
}

func TestComponentKeyTierTwo(t *testing.T) {
	noIDs := &discordgo.Message{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.Button{Style: discordgo.LinkButton, URL: "https://anify.tv"},
			}},
		},
	}

	assert.Equal(t, "services-kill", ComponentKey(noIDs, "Services Kill", "confirm"))
	assert.Equal(t, "services-kill", ComponentKey(nil, "services kill", "confirm"))
	assert.Equal(t, "a--b", ComponentKey(nil, "A  B", "confirm"))
}

func TestComponentKeyTierThree(t *testing.T) {
	assert.Equal(t, "refresh-history", ComponentKey(nil, "", "Refresh History"))
	assert.Equal(t, "refresh-history", ComponentKey(&discordgo.Message{}, "", "Refresh History"))
	assert.Equal(t, "", ComponentKey(nil, "", ""))
}
