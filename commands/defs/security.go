package defs

import "github.com/bwmarrin/discordgo"

var Lockdown = &discordgo.ApplicationCommand{
	Name:                     "lockdown",
	Description:              "Stop @everyone from sending messages",
	DefaultMemberPermissions: &manageGuild,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "start",
			Description: "Lock the server down",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "Lift automatically after, e.g. 30m (default 30m)",
				},
				reasonOption(false),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "end",
			Description: "Lift the lockdown",
			Options:     []*discordgo.ApplicationCommandOption{reasonOption(false)},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "status",
			Description: "Show the current lockdown",
		},
	},
}

var Quarantine = &discordgo.ApplicationCommand{
	Name:                     "quarantine",
	Description:              "Isolate a member behind the Quarantined role",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Quarantine a member",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to quarantine"), reasonOption(false)},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Release a member from quarantine",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to release"), reasonOption(false)},
		},
	},
}

var TrustLevel = &discordgo.ApplicationCommand{
	Name:                     "trustlevel",
	Description:              "Show or override a member's reputation",
	DefaultMemberPermissions: &moderatePerm,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member"),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "level",
			Description: "Set a trust level; omit to show the current reputation",
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Trusted", Value: "trusted"},
				{Name: "Neutral", Value: "neutral"},
				{Name: "Suspicious", Value: "suspicious"},
				{Name: "High risk", Value: "high_risk"},
			},
		},
	},
}
