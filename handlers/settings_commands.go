package handlers

import (
	"fmt"
	"strings"

	"discord-modbot/bot"
	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

func (o commandOptions) channelID(name string) string {
	if opt, ok := o[name]; ok {
		return opt.ChannelValue(nil).ID
	}
	return ""
}

func handleLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := optionMap(i.ApplicationCommandData().Options)

	if sub == "set" {
		channelID := opts.channelID("channel")
		var err error
		if opts.text("type") == "events" {
			err = b.Settings.SetEventLogChannel(i.GuildID, channelID)
		} else {
			err = b.Settings.SetModLogChannel(i.GuildID, channelID)
		}
		if err != nil {
			logger.WithError(err).WithField("guild", i.GuildID).Error("saving log channel")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		logger.WithField("guild", i.GuildID).WithField("type", opts.text("type")).WithField("channel", channelID).
			Info("log channel set")
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ %s log will be posted in <#%s>.", logTypeName(opts.text("type")), channelID))
		return
	}

	routing, err := b.Settings.GuildRouting(i.GuildID)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).Error("loading routing")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendSimpleResponse(s, i, logChannelSummary(routing))
}

func logTypeName(t string) string {
	if t == "events" {
		return "Event"
	}
	return "Moderation"
}

func logChannelSummary(r model.GuildRouting) string {
	mention := func(id string) string {
		if id == "" {
			return "not set"
		}
		return "<#" + id + ">"
	}
	events := mention(r.EventLogChannelID)
	if r.EventLogChannelID == "" && r.ModLogChannelID != "" {
		events = "same as moderation log"
	}
	return fmt.Sprintf("Moderation log: %s\nEvent log: %s", mention(r.ModLogChannelID), events)
}

func handleAutoMod(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := optionMap(i.ApplicationCommandData().Options)

	cfg, err := b.Settings.ModerationConfig(i.GuildID)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).Error("loading automod settings")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}

	if sub == "set" {
		key, value := opts.text("setting"), opts.text("value")
		if err := cfg.Set(key, value); err != nil {
			utils.SendErrorResponse(s, i, err.Error())
			return
		}
		if err := b.Settings.UpdateModerationConfig(i.GuildID, cfg); err != nil {
			logger.WithError(err).WithField("guild", i.GuildID).Error("saving automod settings")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		logger.WithField("guild", i.GuildID).WithField("setting", key).WithField("value", value).
			WithField("moderator", moderatorID(i)).Info("automod setting changed")
	}
	utils.SendEmbedResponse(s, i, autoModEmbed(cfg), nil)
}

func autoModEmbed(cfg model.ModerationConfig) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(model.ModerationConfigKeys))
	for _, key := range model.ModerationConfigKeys {
		v, _ := cfg.Get(key)
		switch v {
		case "true":
			v = "✅"
		case "false":
			v = "❌"
		default:
			v = "`" + v + "`"
		}
		lines = append(lines, fmt.Sprintf("%s %s", v, key))
	}
	return &discordgo.MessageEmbed{
		Title:       "AutoMod Settings",
		Description: strings.Join(lines, "\n"),
		Color:       utils.ColorBlue,
	}
}

func handleBlockedDomains(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := optionMap(i.ApplicationCommandData().Options)
	log := logger.WithField("guild", i.GuildID)

	switch sub {
	case "add":
		domain, added, err := b.Settings.AddBlockedDomain(i.GuildID, opts.text("domain"))
		if err != nil {
			log.WithError(err).Warn("blocking domain")
			utils.SendErrorResponse(s, i, "That is not a domain I can block.")
			return
		}
		if !added {
			utils.SendSimpleResponse(s, i, fmt.Sprintf("`%s` is already blocked.", domain))
			return
		}
		log.WithField("domain", domain).Info("domain blocked")
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Links to `%s` and its subdomains will be deleted.", domain))

	case "remove":
		removed, err := b.Settings.RemoveBlockedDomain(i.GuildID, opts.text("domain"))
		if err != nil {
			log.WithError(err).Error("unblocking domain")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		if !removed {
			utils.SendErrorResponse(s, i, "That domain is not blocked.")
			return
		}
		utils.SendSimpleResponse(s, i, "✅ Domain unblocked.")

	default:
		domains, err := b.Settings.BlockedDomains(i.GuildID)
		if err != nil {
			log.WithError(err).Error("listing blocked domains")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		utils.SendSimpleResponse(s, i, blockedDomainsList(domains))
	}
}

func blockedDomainsList(domains []string) string {
	if len(domains) == 0 {
		return "No domains are blocked."
	}
	return utils.Truncate("Blocked domains:\n`"+strings.Join(domains, "`\n`")+"`", 1900)
}
