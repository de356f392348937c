package defs

import (
	"discord-modbot/model"

	"github.com/bwmarrin/discordgo"
)

var LogChannel = &discordgo.ApplicationCommand{
	Name:                     "logchannel",
	Description:              "Choose where moderation and event logs are posted",
	DefaultMemberPermissions: &manageGuild,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Set a log channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "Which log",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Moderation", Value: "moderation"},
						{Name: "Events", Value: "events"},
					},
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Text channel to post in",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "show",
			Description: "Show the configured log channels",
		},
	},
}

func settingChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.ModerationConfigKeys))
	for _, k := range model.ModerationConfigKeys {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: k, Value: k})
	}
	return out
}

var AutoMod = &discordgo.ApplicationCommand{
	Name:                     "automod",
	Description:              "Show or change this server's automod settings",
	DefaultMemberPermissions: &manageGuild,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "show",
			Description: "Show every setting",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Change one setting",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "setting",
					Description: "Setting to change",
					Required:    true,
					Choices:     settingChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "true/false, a number, or a raid level",
					Required:    true,
				},
			},
		},
	},
}

func domainOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "domain",
		Description: "Domain, e.g. example.com",
		Required:    true,
		MaxLength:   253,
	}
}

var BlockedDomains = &discordgo.ApplicationCommand{
	Name:                     "blockeddomains",
	Description:              "Manage domains whose links are deleted on sight",
	DefaultMemberPermissions: &manageGuild,
	Contexts:                 guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Block a domain",
			Options:     []*discordgo.ApplicationCommandOption{domainOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Unblock a domain",
			Options:     []*discordgo.ApplicationCommandOption{domainOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List blocked domains",
		},
	},
}
