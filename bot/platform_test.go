package bot

import (
	"net/http"
	"testing"
	"time"

	"discord-modbot/moderation"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restError(status, code int) *discordgo.RESTError {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status, Status: http.StatusText(status)},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "x"},
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil, "op"))

	assert.True(t, errors.Is(mapError(restError(403, discordgo.ErrCodeMissingPermissions), "op"), moderation.ErrPermissionDenied))
	assert.True(t, errors.Is(mapError(restError(400, discordgo.ErrCodeMissingPermissions), "op"), moderation.ErrPermissionDenied))
	assert.True(t, errors.Is(mapError(restError(404, discordgo.ErrCodeUnknownMessage), "op"), moderation.ErrNotFound))
	assert.True(t, errors.Is(mapError(restError(400, discordgo.ErrCodeUnknownBan), "op"), moderation.ErrNotFound))

	other := mapError(restError(500, 0), "op")
	assert.False(t, errors.Is(other, moderation.ErrNotFound))
	assert.False(t, errors.Is(other, moderation.ErrPermissionDenied))

	plain := mapError(errors.New("dial tcp: timeout"), "delete message")
	assert.EqualError(t, plain, "delete message: dial tcp: timeout")
}

func TestChannelKind(t *testing.T) {
	assert.Equal(t, moderation.ChannelText, channelKind(discordgo.ChannelTypeGuildText))
	assert.Equal(t, moderation.ChannelText, channelKind(discordgo.ChannelTypeGuildNews))
	assert.Equal(t, moderation.ChannelVoice, channelKind(discordgo.ChannelTypeGuildVoice))
	assert.Equal(t, moderation.ChannelStage, channelKind(discordgo.ChannelTypeGuildStageVoice))
	assert.Equal(t, moderation.ChannelOther, channelKind(discordgo.ChannelTypeGuildCategory))
}

func TestWarningEmbed(t *testing.T) {
	embed := warningEmbed(moderation.WarningNotice{GuildName: "g", ChannelName: "general", Reason: "Excessive caps usage", Count: 1})
	assert.Contains(t, embed.Title, "Warning #1")
	assert.Len(t, embed.Fields, 2)

	embed = warningEmbed(moderation.WarningNotice{ChannelName: "general", Reason: "r", Count: 2, NextMayMute: true})
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Further violations may result in temporary mute or other penalties.", embed.Fields[2].Value)

	embed = warningEmbed(moderation.WarningNotice{GuildName: "g", Reason: "manual", Count: 3})
	require.Len(t, embed.Fields, 1, "a moderator's warning names no channel")
	assert.Equal(t, "manual", embed.Fields[0].Value)
}

func TestActionLogEmbed(t *testing.T) {
	embed := actionLogEmbed(moderation.ActionLog{
		Action:     "lockdown_initiated",
		Reason:     "Potential raid detected",
		IncidentID: "abc",
		Timestamp:  time.Unix(0, 0),
	})
	assert.Contains(t, embed.Title, "Lockdown Initiated")
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Incident abc", embed.Footer.Text)

	embed = actionLogEmbed(moderation.ActionLog{Action: "kick", TargetID: "u1"})
	assert.Equal(t, "👢 Member Kicked", embed.Title)

	embed = actionLogEmbed(moderation.ActionLog{Action: "custom", TargetID: "u1"})
	assert.Equal(t, "Security Action: custom", embed.Title)
	assert.Len(t, embed.Fields, 2)
}

func TestLogEntryEmbedEmptyContent(t *testing.T) {
	embed := logEntryEmbed(moderation.LogEntry{UserID: "u1", Count: 3, Reason: "Spam: Rapid messaging"})
	assert.Equal(t, "```*no text content*```", embed.Fields[5].Value)
	assert.Equal(t, "3", embed.Fields[2].Value)
}
