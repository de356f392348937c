package handlers

import (
	"fmt"
	"strings"
	"time"

	"discord-modbot/bot"
	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// Accounts younger than this get a warning line in the join log.
const newAccountAge = 7 * 24 * time.Hour

func eventLogChannel(r model.GuildRouting) string {
	if r.EventLogChannelID != "" {
		return r.EventLogChannelID
	}
	return r.ModLogChannelID
}

// sendEventLog posts embed to the guild's event log. Guilds without any log channel are skipped.
func sendEventLog(s *discordgo.Session, b *bot.Bot, guildID string, embed *discordgo.MessageEmbed) {
	if embed == nil || b.Settings == nil {
		return
	}
	routing, err := b.Settings.GuildRouting(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Warn("loading routing for event log")
		return
	}
	channelID := eventLogChannel(routing)
	if channelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.WithError(err).WithField("guild", guildID).WithField("channel", channelID).Debug("sending event log")
	}
}

func userField(u *discordgo.User) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: "User", Value: fmt.Sprintf("%s (%s)", u.Mention(), u.String()), Inline: true}
}

func memberJoinEmbed(m *discordgo.Member, now time.Time) *discordgo.MessageEmbed {
	if m == nil || m.User == nil {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:     "📥 Member Joined",
		Color:     utils.ColorGreen,
		Fields:    []*discordgo.MessageEmbedField{userField(m.User)},
		Footer:    &discordgo.MessageEmbedFooter{Text: "User ID: " + m.User.ID},
		Timestamp: now.Format(time.RFC3339),
	}
	if created, err := discordgo.SnowflakeTimestamp(m.User.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Account Created", Value: fmt.Sprintf("<t:%d:R>", created.Unix()), Inline: true,
		})
		if now.Sub(created) < newAccountAge {
			embed.Color = utils.ColorOrange
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "⚠️ New Account", Value: "Created less than a week ago"})
		}
	}
	return embed
}

func memberLeaveEmbed(m *discordgo.Member, now time.Time) *discordgo.MessageEmbed {
	if m == nil || m.User == nil {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:     "📤 Member Left",
		Color:     utils.ColorRed,
		Fields:    []*discordgo.MessageEmbedField{userField(m.User)},
		Footer:    &discordgo.MessageEmbedFooter{Text: "User ID: " + m.User.ID},
		Timestamp: now.Format(time.RFC3339),
	}
	if !m.JoinedAt.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Joined", Value: fmt.Sprintf("<t:%d:R>", m.JoinedAt.Unix()), Inline: true,
		})
	}
	return embed
}

// memberChangeEmbeds compares a member before and after an update. Nickname and role
// changes each get their own embed.
func memberChangeEmbeds(before, after *discordgo.Member, now time.Time) []*discordgo.MessageEmbed {
	if before == nil || after == nil || after.User == nil {
		return nil
	}
	var out []*discordgo.MessageEmbed
	if before.Nick != after.Nick {
		out = append(out, &discordgo.MessageEmbed{
			Title: "✏️ Nickname Changed",
			Color: utils.ColorBlue,
			Fields: []*discordgo.MessageEmbedField{
				userField(after.User),
				{Name: "Before", Value: orNone(before.Nick), Inline: true},
				{Name: "After", Value: orNone(after.Nick), Inline: true},
			},
			Timestamp: now.Format(time.RFC3339),
		})
	}

	added, removed := diffRoles(before.Roles, after.Roles)
	if len(added)+len(removed) > 0 {
		embed := &discordgo.MessageEmbed{
			Title:     "🎭 Roles Updated",
			Color:     utils.ColorBlue,
			Fields:    []*discordgo.MessageEmbedField{userField(after.User)},
			Timestamp: now.Format(time.RFC3339),
		}
		if len(added) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Added", Value: roleMentions(added)})
		}
		if len(removed) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Removed", Value: roleMentions(removed)})
		}
		out = append(out, embed)
	}
	return out
}

func diffRoles(before, after []string) (added, removed []string) {
	had := make(map[string]bool, len(before))
	for _, r := range before {
		had[r] = true
	}
	has := make(map[string]bool, len(after))
	for _, r := range after {
		has[r] = true
		if !had[r] {
			added = append(added, r)
		}
	}
	for _, r := range before {
		if !has[r] {
			removed = append(removed, r)
		}
	}
	return added, removed
}

func roleMentions(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "<@&" + id + ">"
	}
	return strings.Join(out, " ")
}

func orNone(s string) string {
	if s == "" {
		return "*none*"
	}
	return s
}

func quoteContent(s string) string {
	if strings.TrimSpace(s) == "" {
		return "*no text content*"
	}
	return utils.Truncate(s, 1000)
}

// messageDeleteEmbed needs the cached message; deletes of uncached messages are not logged.
func messageDeleteEmbed(before *discordgo.Message, now time.Time) *discordgo.MessageEmbed {
	if before == nil || before.Author == nil || before.Author.Bot {
		return nil
	}
	return &discordgo.MessageEmbed{
		Title: "🗑️ Message Deleted",
		Color: utils.ColorRed,
		Fields: []*discordgo.MessageEmbedField{
			userField(before.Author),
			{Name: "Channel", Value: "<#" + before.ChannelID + ">", Inline: true},
			{Name: "Content", Value: quoteContent(before.Content)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Message ID: " + before.ID},
		Timestamp: now.Format(time.RFC3339),
	}
}

func messageEditEmbed(before, after *discordgo.Message, now time.Time) *discordgo.MessageEmbed {
	if before == nil || after == nil || after.Author == nil || after.Author.Bot || before.Content == after.Content {
		return nil
	}
	return &discordgo.MessageEmbed{
		Title: "📝 Message Edited",
		Color: utils.ColorYellow,
		Fields: []*discordgo.MessageEmbedField{
			userField(after.Author),
			{Name: "Channel", Value: "<#" + after.ChannelID + ">", Inline: true},
			{Name: "Before", Value: quoteContent(before.Content)},
			{Name: "After", Value: quoteContent(after.Content)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Message ID: " + after.ID},
		Timestamp: now.Format(time.RFC3339),
	}
}

func channelEventEmbed(c *discordgo.Channel, created bool, now time.Time) *discordgo.MessageEmbed {
	if c == nil || c.GuildID == "" {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:     "📁 Channel Created",
		Color:     utils.ColorGreen,
		Fields:    []*discordgo.MessageEmbedField{{Name: "Channel", Value: c.Mention() + " (#" + c.Name + ")"}},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Channel ID: " + c.ID},
		Timestamp: now.Format(time.RFC3339),
	}
	if !created {
		embed.Title = "🗑️ Channel Deleted"
		embed.Color = utils.ColorRed
		embed.Fields[0].Value = "#" + c.Name
	}
	return embed
}

func roleCreateEmbed(r *discordgo.Role, now time.Time) *discordgo.MessageEmbed {
	if r == nil {
		return nil
	}
	return &discordgo.MessageEmbed{
		Title:     "🏷️ Role Created",
		Color:     utils.ColorGreen,
		Fields:    []*discordgo.MessageEmbedField{{Name: "Role", Value: r.Mention() + " (" + r.Name + ")"}},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Role ID: " + r.ID},
		Timestamp: now.Format(time.RFC3339),
	}
}

// roleDeleteEmbed only knows the ID; the state cache drops the role before handlers run.
func roleDeleteEmbed(roleID string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     "🗑️ Role Deleted",
		Color:     utils.ColorRed,
		Fields:    []*discordgo.MessageEmbedField{{Name: "Role ID", Value: roleID}},
		Timestamp: now.Format(time.RFC3339),
	}
}
