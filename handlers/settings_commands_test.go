package handlers

import (
	"strings"
	"testing"
	"time"

	"discord-modbot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogChannelSummary(t *testing.T) {
	assert.Equal(t, "Moderation log: not set\nEvent log: not set", logChannelSummary(model.GuildRouting{}))
	assert.Equal(t, "Moderation log: <#m>\nEvent log: same as moderation log", logChannelSummary(model.GuildRouting{ModLogChannelID: "m"}))
	assert.Equal(t, "Moderation log: <#m>\nEvent log: <#e>", logChannelSummary(model.GuildRouting{ModLogChannelID: "m", EventLogChannelID: "e"}))
}

func TestAutoModEmbed(t *testing.T) {
	cfg := model.DefaultModerationConfig()
	lines := strings.Split(autoModEmbed(cfg).Description, "\n")
	require.Len(t, lines, len(model.ModerationConfigKeys))
	assert.Equal(t, "✅ spam_detection", lines[0])
	assert.Equal(t, "❌ auto_delete_invites", lines[1])
	assert.Equal(t, "`medium` raid_protection_level", lines[len(lines)-1])
}

func TestBlockedDomainsList(t *testing.T) {
	assert.Equal(t, "No domains are blocked.", blockedDomainsList(nil))
	assert.Equal(t, "Blocked domains:\n`a.example`\n`b.example`", blockedDomainsList([]string{"a.example", "b.example"}))
}

func TestRenderModHistory(t *testing.T) {
	embed := renderModHistory(nil, "u1")
	assert.Equal(t, "No moderation actions recorded for <@u1>.", embed.Description)

	embed = renderModHistory([]model.ModActionRecord{
		{Action: model.ActionBan, ModeratorID: "mod", Reason: "raid", DurationSeconds: 86400, CreatedAt: time.Unix(100, 0)},
		{Action: model.ActionWarn, CreatedAt: time.Unix(50, 0)},
	}, "u1")
	require.Len(t, embed.Fields, 2)
	assert.Contains(t, embed.Fields[0].Name, "<t:100:R>")
	assert.Equal(t, "raid\nby <@mod>", embed.Fields[0].Value)
	assert.Equal(t, "No reason provided", embed.Fields[1].Value)
}

func TestRenderLogSummary(t *testing.T) {
	ts := time.Unix(1000, 0)
	msgs := []*discordgo.Message{
		{Timestamp: ts, Embeds: []*discordgo.MessageEmbed{{Title: "🗑️ Message Deleted"}}},
		{Timestamp: ts, Content: "plain note"},
		{Timestamp: ts},
	}
	embed := renderLogSummary(msgs, "log")
	assert.Equal(t, "<t:1000:t> 🗑️ Message Deleted\n<t:1000:t> plain note", embed.Description)
	assert.Equal(t, "2 entries", embed.Footer.Text)

	assert.Equal(t, "Nothing logged in <#log> yet.", renderLogSummary(nil, "log").Description)
}

func TestOutranks(t *testing.T) {
	st := discordgo.NewState()
	require.NoError(t, st.GuildAdd(&discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Position: 0},
			{ID: "mods", Position: 5},
			{ID: "admins", Position: 10},
		},
	}))
	for id, roles := range map[string][]string{
		"mod":   {"mods"},
		"mod2":  {"mods"},
		"admin": {"admins", "mods"},
		"plain": nil,
	} {
		require.NoError(t, st.MemberAdd(&discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: id}, Roles: roles}))
	}

	assert.True(t, outranks(st, "g1", "mod", "plain"))
	assert.False(t, outranks(st, "g1", "mod", "mod2"), "equal roles")
	assert.False(t, outranks(st, "g1", "mod", "admin"))
	assert.True(t, outranks(st, "g1", "admin", "mod"))
	assert.True(t, outranks(st, "g1", "owner", "admin"))
	assert.False(t, outranks(st, "g1", "admin", "owner"))
	assert.True(t, outranks(st, "g1", "mod", "uncached"))
}
