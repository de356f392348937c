package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"discord-modbot/bot"
	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	warningsPagePrefix = "warnings_page"
	warningsPerPage    = 5
)

func handleViolations(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	n := b.Moderation().Violations(i.GuildID, userID)
	utils.SendSimpleResponse(s, i, fmt.Sprintf("<@%s> has %d automod violation(s).", userID, n))
}

func handleClearViolations(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	prev := b.Moderation().ClearViolations(i.GuildID, userID)
	logger.WithField("guild", i.GuildID).WithField("user", userID).WithField("moderator", moderatorID(i)).
		Info("violations cleared")
	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Cleared %d violation(s) for <@%s>.", prev, userID))
}

func handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")

	switch sub {
	case "clear":
		n, err := b.Audit.ClearWarnings(i.GuildID, userID)
		if err != nil {
			logger.WithError(err).WithField("guild", i.GuildID).Error("clearing warnings")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Deleted %d warning(s) for <@%s>.", n, userID))
	default:
		embed, components, err := warningsPage(b, i.GuildID, userID, 1)
		if err != nil {
			logger.WithError(err).WithField("guild", i.GuildID).Error("listing warnings")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		utils.SendEmbedResponse(s, i, embed, components)
	}
}

// handleWarningsPage serves the previous/next buttons, custom id "warnings_page:<page>:<user>".
func handleWarningsPage(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 {
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	embed, components, err := warningsPage(b, i.GuildID, parts[2], page)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).Error("listing warnings")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.UpdateEmbedResponse(s, i, embed, components)
}

func warningsPage(b *bot.Bot, guildID, userID string, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	warnings, err := b.Audit.Warnings(guildID, userID)
	if err != nil {
		return nil, nil, err
	}
	embed, components := renderWarnings(warnings, userID, page)
	return embed, components, nil
}

func renderWarnings(warnings []model.WarningRecord, userID string, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	page, start, end := utils.PageBounds(page, len(warnings), warningsPerPage)
	pages := utils.PageCount(len(warnings), warningsPerPage)

	embed := &discordgo.MessageEmbed{
		Title:       "Warnings",
		Description: fmt.Sprintf("<@%s> has %d warning(s).", userID, len(warnings)),
		Color:       utils.ColorOrange,
	}
	for _, w := range warnings[start:end] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d • <t:%d:R>", w.ID, w.CreatedAt.Unix()),
			Value: fmt.Sprintf("%s\nby <@%s>", w.Reason, w.ModeratorID),
		})
	}
	if pages > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d of %d", page, pages)}
	}
	return embed, utils.CreatePaginationComponents(page, pages, warningsPagePrefix, userID)
}

// acquireMemberLock rejects concurrent manual actions against the same member.
func acquireMemberLock(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, userID string) bool {
	if b.ActionLock.Acquire(i.GuildID+":"+userID, time.Now()) {
		return true
	}
	utils.SendErrorResponse(s, i, "Another action on this member is in progress, try again in a few seconds.")
	return false
}

func handleTempMute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	if !acquireMemberLock(s, i, b, userID) {
		return
	}

	d, err := b.Moderation().TempMute(i.GuildID, userID, moderatorID(i), opts.text("duration"), opts.reason("No reason provided"))
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("tempmute failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("🔇 Muted <@%s> for %s.", userID, utils.FormatDuration(d)))
}

func handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")

	if err := b.Moderation().Unmute(i.GuildID, userID, moderatorID(i), opts.reason("Manual unmute")); err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("unmute failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("🔊 Unmuted <@%s>.", userID))
}

func handleTempBan(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	if !acquireMemberLock(s, i, b, userID) {
		return
	}

	d, err := b.Moderation().TempBan(i.GuildID, userID, moderatorID(i), opts.text("duration"),
		opts.reason("No reason provided"), opts.number("delete_days"))
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("tempban failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("🔨 Banned <@%s> for %s.", userID, utils.FormatDuration(d)))
}

func handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")

	if err := b.Moderation().Unban(i.GuildID, userID, moderatorID(i), opts.reason("Manual unban")); err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("unban failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Unbanned <@%s>.", userID))
}
