package handlers

import (
	"fmt"
	"strings"

	"discord-modbot/bot"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

func handleLockdown(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := optionMap(i.ApplicationCommandData().Options)
	svc := b.Moderation()

	switch sub {
	case "start":
		var d = b.GetConfig().RaidLockdownDuration
		if raw := opts.text("duration"); raw != "" {
			parsed, ok := utils.ParseDuration(raw)
			if !ok || parsed <= 0 {
				utils.SendErrorResponse(s, i, userMessage(moderation.ErrMalformedDuration))
				return
			}
			d = parsed
		}
		state, started := svc.StartLockdown(i.GuildID, opts.reason("Manual lockdown"), d)
		if !started {
			utils.SendErrorResponse(s, i, fmt.Sprintf("A lockdown is already active until <t:%d:t>.", state.EndsAt.Unix()))
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("🔒 Server locked down until <t:%d:t>. Incident `%s`.", state.EndsAt.Unix(), state.IncidentID))

	case "end":
		wasActive, err := svc.EndLockdown(i.GuildID, opts.reason("Lockdown lifted by moderator"))
		if err != nil {
			logger.WithError(err).WithField("guild", i.GuildID).Error("ending lockdown")
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
		if !wasActive {
			utils.SendSimpleResponse(s, i, "No lockdown is active.")
			return
		}
		utils.SendPublicResponse(s, i, "🔓 Lockdown lifted.")

	default:
		utils.SendSimpleResponse(s, i, lockdownStatus(svc.Lockdown(i.GuildID)))
	}
}

func lockdownStatus(state moderation.LockdownState) string {
	if !state.Active {
		return "No lockdown is active."
	}
	return fmt.Sprintf("🔒 Lockdown active since <t:%d:R>, ends <t:%d:R>.\nReason: %s\nIncident: `%s`",
		state.StartedAt.Unix(), state.EndsAt.Unix(), state.Reason, state.IncidentID)
}

func handleQuarantine(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	svc := b.Moderation()

	var err error
	var reply string
	switch sub {
	case "remove":
		err = svc.Unquarantine(i.GuildID, userID, moderatorID(i), opts.reason("Released by moderator"))
		reply = fmt.Sprintf("✅ Released <@%s> from quarantine.", userID)
	default:
		if !acquireMemberLock(s, i, b, userID) {
			return
		}
		err = svc.Quarantine(i.GuildID, userID, opts.reason("Quarantined by moderator"))
		reply = fmt.Sprintf("🚧 Quarantined <@%s>.", userID)
	}
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).WithField("user", userID).Warn("quarantine command failed")
		utils.SendErrorResponse(s, i, userMessage(err))
		return
	}
	utils.SendSimpleResponse(s, i, reply)
}

func handleTrustLevel(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	_, opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts.userID("user")
	svc := b.Moderation()

	state := svc.Reputation(i.GuildID, userID)
	if level := opts.text("level"); level != "" {
		var err error
		state, err = svc.SetTrustLevel(i.GuildID, userID, moderatorID(i), level)
		if err != nil {
			utils.SendErrorResponse(s, i, userMessage(err))
			return
		}
	}
	utils.SendEmbedResponse(s, i, reputationEmbed(state), nil)
}

func reputationEmbed(st moderation.ReputationState) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Reputation",
		Description: "<@" + st.UserID + ">",
		Color:       utils.ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Score", Value: fmt.Sprintf("%d/100", st.Score), Inline: true},
			{Name: "Trust Level", Value: string(st.TrustLevel), Inline: true},
			{Name: "Violations", Value: fmt.Sprint(st.ViolationCount), Inline: true},
		},
	}
	if st.Suspicious() {
		embed.Color = utils.ColorRed
	}

	recent := st.History
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	if len(recent) > 0 {
		lines := make([]string, 0, len(recent))
		for j := len(recent) - 1; j >= 0; j-- {
			e := recent[j]
			lines = append(lines, fmt.Sprintf("`%s` %s <t:%d:R>", e.Severity, e.Reason, e.Timestamp.Unix()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Recent Flags", Value: strings.Join(lines, "\n")})
	}
	return embed
}
