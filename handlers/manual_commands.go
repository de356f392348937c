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

const (
	modHistoryLimit = 10
	defaultLogCount = 10
)

func handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	if userID == moderatorID(i) {
		utils.SendErrorResponse(s, i, "You cannot warn yourself.")
		return
	}

	guildName := i.GuildID
	if g, err := s.State.Guild(i.GuildID); err == nil {
		guildName = g.Name
	}
	reason := opts.reason("No reason provided")
	n, err := b.Moderation().Warn(i.GuildID, guildName, userID, moderatorID(i), reason)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("warn failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("⚠️ Warned <@%s> (warning #%d): %s", userID, n, reason))
}

func handleKick(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	if userID == moderatorID(i) {
		utils.SendErrorResponse(s, i, "You cannot kick yourself.")
		return
	}
	if !outranks(s.State, i.GuildID, moderatorID(i), userID) {
		utils.SendErrorResponse(s, i, "You cannot kick someone with a higher or equal role.")
		return
	}
	if !acquireMemberLock(s, i, b, userID) {
		return
	}

	if err := b.Moderation().Kick(i.GuildID, userID, moderatorID(i), opts.reason("No reason provided")); err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("kick failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("👢 Kicked <@%s>.", userID))
}

// outranks reports whether actor's top role is above target's. The guild owner outranks
// everyone; a target missing from the state cache is left to Discord's own checks.
func outranks(st *discordgo.State, guildID, actorID, targetID string) bool {
	g, err := st.Guild(guildID)
	if err != nil {
		return true
	}
	if actorID == g.OwnerID {
		return true
	}
	if targetID == g.OwnerID {
		return false
	}
	target, err := st.Member(guildID, targetID)
	if err != nil {
		return true
	}
	actor, err := st.Member(guildID, actorID)
	if err != nil {
		return false
	}
	return topRolePosition(st, guildID, actor.Roles) > topRolePosition(st, guildID, target.Roles)
}

func topRolePosition(st *discordgo.State, guildID string, roles []string) int {
	top := 0
	for _, id := range roles {
		if r, err := st.Role(guildID, id); err == nil && r.Position > top {
			top = r.Position
		}
	}
	return top
}

func handleModHistory(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")

	actions, err := b.Audit.Actions(i.GuildID, userID, modHistoryLimit)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).Error("listing mod actions")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendEmbedResponse(s, i, renderModHistory(actions, userID), nil)
}

func renderModHistory(actions []model.ModActionRecord, userID string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Moderation History",
		Description: fmt.Sprintf("Latest actions against <@%s>.", userID),
		Color:       utils.ColorBlue,
	}
	if len(actions) == 0 {
		embed.Description = fmt.Sprintf("No moderation actions recorded for <@%s>.", userID)
		return embed
	}
	for _, a := range actions {
		name := fmt.Sprintf("%s • <t:%d:R>", a.Action, a.CreatedAt.Unix())
		if a.DurationSeconds > 0 {
			name += " • " + utils.FormatDuration(time.Duration(a.DurationSeconds)*time.Second)
		}
		value := a.Reason
		if value == "" {
			value = "No reason provided"
		}
		if a.ModeratorID != "" {
			value += fmt.Sprintf("\nby <@%s>", a.ModeratorID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}
	return embed
}

// handleLogs lists the latest bot posts in the event log channel, or the moderation log
// when no event log is set.
func handleLogs(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	amount := opts.number("amount")
	if amount <= 0 {
		amount = defaultLogCount
	}

	routing, err := b.Settings.GuildRouting(i.GuildID)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).Error("loading routing")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	channelID := eventLogChannel(routing)
	if channelID == "" {
		utils.SendErrorResponse(s, i, "No log channel is configured. Use /logchannel set first.")
		return
	}

	msgs, err := s.ChannelMessages(channelID, amount, "", "", "")
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("channel", channelID).Warn("reading log channel")
		utils.SendErrorResponse(s, i, "I could not read the log channel.")
		return
	}
	utils.SendEmbedResponse(s, i, renderLogSummary(msgs, channelID), nil)
}

func renderLogSummary(msgs []*discordgo.Message, channelID string) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		title := strings.TrimSpace(m.Content)
		if len(m.Embeds) > 0 && m.Embeds[0].Title != "" {
			title = m.Embeds[0].Title
		}
		if title == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("<t:%d:t> %s", m.Timestamp.Unix(), utils.Truncate(title, 80)))
	}

	embed := &discordgo.MessageEmbed{
		Title: "Recent Log Entries",
		Color: utils.ColorBlue,
	}
	if len(lines) == 0 {
		embed.Description = fmt.Sprintf("Nothing logged in <#%s> yet.", channelID)
		return embed
	}
	embed.Description = utils.Truncate(strings.Join(lines, "\n"), 4000)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d entries", len(lines))}
	return embed
}
