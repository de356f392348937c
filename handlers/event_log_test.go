package handlers

import (
	"strconv"
	"testing"
	"time"

	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// snowflakeAt builds a user ID whose embedded creation time is t.
func snowflakeAt(t time.Time) string {
	return strconv.FormatInt((t.UnixMilli()-1420070400000)<<22, 10)
}

func TestEventLogChannel(t *testing.T) {
	assert.Equal(t, "ev", eventLogChannel(model.GuildRouting{ModLogChannelID: "mod", EventLogChannelID: "ev"}))
	assert.Equal(t, "mod", eventLogChannel(model.GuildRouting{ModLogChannelID: "mod"}))
	assert.Empty(t, eventLogChannel(model.GuildRouting{}))
}

func TestMemberJoinEmbed(t *testing.T) {
	old := &discordgo.Member{User: &discordgo.User{ID: snowflakeAt(eventNow.AddDate(-1, 0, 0)), Username: "veteran"}}
	embed := memberJoinEmbed(old, eventNow)
	require.NotNil(t, embed)
	assert.Equal(t, utils.ColorGreen, embed.Color)
	assert.Len(t, embed.Fields, 2)

	fresh := &discordgo.Member{User: &discordgo.User{ID: snowflakeAt(eventNow.Add(-2 * time.Hour)), Username: "fresh"}}
	embed = memberJoinEmbed(fresh, eventNow)
	assert.Equal(t, utils.ColorOrange, embed.Color)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "⚠️ New Account", embed.Fields[2].Name)

	assert.Nil(t, memberJoinEmbed(&discordgo.Member{}, eventNow))
}

func TestMemberLeaveEmbed(t *testing.T) {
	m := &discordgo.Member{User: &discordgo.User{ID: "1", Username: "gone"}, JoinedAt: eventNow.Add(-time.Hour)}
	embed := memberLeaveEmbed(m, eventNow)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Joined", embed.Fields[1].Name)
	assert.Equal(t, "User ID: 1", embed.Footer.Text)
}

func TestMemberChangeEmbeds(t *testing.T) {
	user := &discordgo.User{ID: "1", Username: "u"}
	before := &discordgo.Member{User: user, Nick: "old", Roles: []string{"a", "b"}}
	after := &discordgo.Member{User: user, Nick: "new", Roles: []string{"b", "c"}}

	embeds := memberChangeEmbeds(before, after, eventNow)
	require.Len(t, embeds, 2)
	assert.Equal(t, "✏️ Nickname Changed", embeds[0].Title)
	assert.Equal(t, "old", embeds[0].Fields[1].Value)
	assert.Equal(t, "new", embeds[0].Fields[2].Value)

	roles := embeds[1]
	require.Len(t, roles.Fields, 3)
	assert.Equal(t, "<@&c>", roles.Fields[1].Value)
	assert.Equal(t, "<@&a>", roles.Fields[2].Value)

	same := &discordgo.Member{User: user, Nick: "old", Roles: []string{"b", "a"}}
	assert.Empty(t, memberChangeEmbeds(before, same, eventNow))
	assert.Empty(t, memberChangeEmbeds(nil, after, eventNow), "uncached members have nothing to compare")

	cleared := &discordgo.Member{User: user, Roles: []string{"a", "b"}}
	embeds = memberChangeEmbeds(before, cleared, eventNow)
	require.Len(t, embeds, 1)
	assert.Equal(t, "*none*", embeds[0].Fields[2].Value)
}

func TestMessageDeleteEmbed(t *testing.T) {
	before := &discordgo.Message{ID: "m1", ChannelID: "c1", Content: "hello", Author: &discordgo.User{ID: "1", Username: "u"}}
	embed := messageDeleteEmbed(before, eventNow)
	require.NotNil(t, embed)
	assert.Equal(t, "<#c1>", embed.Fields[1].Value)
	assert.Equal(t, "hello", embed.Fields[2].Value)

	assert.Nil(t, messageDeleteEmbed(nil, eventNow))
	assert.Nil(t, messageDeleteEmbed(&discordgo.Message{Author: &discordgo.User{Bot: true}}, eventNow))

	before.Content = ""
	assert.Equal(t, "*no text content*", messageDeleteEmbed(before, eventNow).Fields[2].Value)
}

func TestMessageEditEmbed(t *testing.T) {
	author := &discordgo.User{ID: "1", Username: "u"}
	before := &discordgo.Message{ID: "m1", ChannelID: "c1", Content: "teh", Author: author}
	after := &discordgo.Message{ID: "m1", ChannelID: "c1", Content: "the", Author: author}

	embed := messageEditEmbed(before, after, eventNow)
	require.NotNil(t, embed)
	assert.Equal(t, "teh", embed.Fields[2].Value)
	assert.Equal(t, "the", embed.Fields[3].Value)

	assert.Nil(t, messageEditEmbed(before, before, eventNow), "embed unfurls keep the content")
	assert.Nil(t, messageEditEmbed(nil, after, eventNow))
}

func TestChannelAndRoleEmbeds(t *testing.T) {
	c := &discordgo.Channel{ID: "c9", GuildID: "g1", Name: "news"}
	created := channelEventEmbed(c, true, eventNow)
	assert.Equal(t, "<#c9> (#news)", created.Fields[0].Value)
	deleted := channelEventEmbed(c, false, eventNow)
	assert.Equal(t, "🗑️ Channel Deleted", deleted.Title)
	assert.Equal(t, "#news", deleted.Fields[0].Value)
	assert.Nil(t, channelEventEmbed(&discordgo.Channel{ID: "dm"}, true, eventNow))

	role := roleCreateEmbed(&discordgo.Role{ID: "r1", Name: "Helpers"}, eventNow)
	assert.Equal(t, "<@&r1> (Helpers)", role.Fields[0].Value)
	assert.Equal(t, "r1", roleDeleteEmbed("r1", eventNow).Fields[0].Value)
}
