package defs

import "github.com/bwmarrin/discordgo"

var (
	moderatePerm int64 = discordgo.PermissionModerateMembers
	banPerm      int64 = discordgo.PermissionBanMembers
	kickPerm     int64 = discordgo.PermissionKickMembers
	manageGuild  int64 = discordgo.PermissionManageGuild

	guildOnly = &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild}

	minZero float64 = 0
	minOne  float64 = 1
)

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason recorded in the audit log",
		Required:    required,
		MaxLength:   400,
	}
}

func durationOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duration",
		Description: description,
		Required:    true,
	}
}

var Violations = &discordgo.ApplicationCommand{
	Name:                     "violations",
	Description:              "Show a member's automod violation count",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to look up")},
}

var ClearViolations = &discordgo.ApplicationCommand{
	Name:                     "clearviolations",
	Description:              "Reset a member's automod violation count",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to reset")},
}

var Warnings = &discordgo.ApplicationCommand{
	Name:                     "warnings",
	Description:              "List or clear a member's warnings",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List a member's warnings",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to look up")},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "clear",
			Description: "Delete all of a member's warnings",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to clear")},
		},
	},
}

var TempMute = &discordgo.ApplicationCommand{
	Name:                     "tempmute",
	Description:              "Mute a member for a period of time",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to mute"),
		durationOption("How long, e.g. 10m, 1h30m, 2d"),
		reasonOption(false),
	},
}

var Unmute = &discordgo.ApplicationCommand{
	Name:                     "unmute",
	Description:              "Remove a mute early",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to unmute"), reasonOption(false)},
}

var TempBan = &discordgo.ApplicationCommand{
	Name:                     "tempban",
	Description:              "Ban a member for a period of time",
	DefaultMemberPermissions: &banPerm,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to ban"),
		durationOption("How long, e.g. 12h, 7d"),
		reasonOption(false),
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "delete_days",
			Description: "Days of messages to delete (0-7)",
			MinValue:    &minZero,
			MaxValue:    7,
		},
	},
}

var Unban = &discordgo.ApplicationCommand{
	Name:                     "unban",
	Description:              "Lift a ban early",
	DefaultMemberPermissions: &banPerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("User to unban"), reasonOption(false)},
}

var Warn = &discordgo.ApplicationCommand{
	Name:                     "warn",
	Description:              "Warn a member and record it",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to warn"), reasonOption(true)},
}

var Kick = &discordgo.ApplicationCommand{
	Name:                     "kick",
	Description:              "Remove a member from the server",
	DefaultMemberPermissions: &kickPerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to kick"), reasonOption(false)},
}

var ModHistory = &discordgo.ApplicationCommand{
	Name:                     "modhistory",
	Description:              "Show the latest moderation actions taken against a member",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to look up")},
}

var Logs = &discordgo.ApplicationCommand{
	Name:                     "logs",
	Description:              "Summarize the latest entries in the log channel",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "How many entries (1-25, default 10)",
			MinValue:    &minOne,
			MaxValue:    25,
		},
	},
}
