package defs

import "github.com/bwmarrin/discordgo"

var BotInfo = &discordgo.ApplicationCommand{
	Name:        "botinfo",
	Description: "Show bot and host statistics",
	Contexts:    guildOnly,
}

var Reload = &discordgo.ApplicationCommand{
	Name:                     "reload",
	Description:              "Reload the bot configuration (developers only)",
	DefaultMemberPermissions: &manageGuild,
	Contexts:                 guildOnly,
}
