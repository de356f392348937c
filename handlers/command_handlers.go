package handlers

import (
	"discord-modbot/bot"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

type handlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate)

var permissionRank = map[string]int{
	utils.GuestPermission:     0,
	utils.ModeratorPermission: 1,
	utils.AdminPermission:     2,
	utils.DeveloperPermission: 3,
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	mod := func(h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) handlerFunc {
		return requirePermission(b, utils.ModeratorPermission, h)
	}
	admin := func(h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) handlerFunc {
		return requirePermission(b, utils.AdminPermission, h)
	}

	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"violations":      mod(handleViolations),
		"clearviolations": mod(handleClearViolations),
		"warnings":        mod(handleWarnings),
		"tempmute":        mod(handleTempMute),
		"unmute":          mod(handleUnmute),
		"tempban":         mod(handleTempBan),
		"unban":           mod(handleUnban),
		"warn":            mod(handleWarn),
		"kick":            mod(handleKick),
		"modhistory":      mod(handleModHistory),
		"logs":            mod(handleLogs),
		"quarantine":      mod(handleQuarantine),
		"trustlevel":      mod(handleTrustLevel),
		"lockdown":        admin(handleLockdown),
		"logchannel":      admin(handleLogChannel),
		"automod":         admin(handleAutoMod),
		"blockeddomains":  admin(handleBlockedDomains),
		"botinfo":         requirePermission(b, utils.GuestPermission, SystemInfoHandler),
		"reload":          requirePermission(b, utils.DeveloperPermission, handleReload),
	}
}

func componentHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		warningsPagePrefix: requirePermission(b, utils.ModeratorPermission, handleWarningsPage),
	}
}

// permissionLevel returns the invoking member's level, guest outside guilds.
func permissionLevel(i *discordgo.InteractionCreate, developerIDs []string) string {
	if i.Member == nil || i.Member.User == nil {
		return utils.GuestPermission
	}
	return utils.CheckPermission(i.Member.User.ID, i.Member.Permissions, developerIDs)
}

func requirePermission(b *bot.Bot, level string, h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) handlerFunc {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if permissionRank[permissionLevel(i, b.GetConfig().DeveloperUserIDs)] < permissionRank[level] {
			utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
			return
		}
		if b.Moderation() == nil {
			utils.SendErrorResponse(s, i, "The bot is still starting, try again in a moment.")
			return
		}
		h(s, i, b)
	}
}

// userMessage turns a moderation error into a reply for the moderator.
func userMessage(err error) string {
	switch {
	case errors.Is(err, moderation.ErrMalformedDuration):
		return "Invalid duration. Use a format like 10m, 1h30m or 2d."
	case errors.Is(err, moderation.ErrPermissionDenied):
		return "I don't have permission to do that. Check my role position and permissions."
	case errors.Is(err, moderation.ErrNotFound):
		return "That member, role or ban no longer exists."
	case errors.Is(err, moderation.ErrInvalidTrustLevel):
		return "Unknown trust level."
	default:
		return "Something went wrong, the error has been logged."
	}
}

func moderatorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

// optionMap indexes options by name. For a command with subcommands it returns the
// subcommand name and that subcommand's options.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) (string, commandOptions) {
	sub := ""
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = opts[0].Name
		opts = opts[0].Options
	}
	m := make(commandOptions, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return sub, m
}

func (o commandOptions) text(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (o commandOptions) number(name string) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}
	return 0
}

func (o commandOptions) userID(name string) string {
	if opt, ok := o[name]; ok {
		return opt.UserValue(nil).ID
	}
	return ""
}

func (o commandOptions) reason(fallback string) string {
	if r := o.text("reason"); r != "" {
		return r
	}
	return fallback
}
