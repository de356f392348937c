package commands

import (
	"discord-modbot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Violations,
		defs.ClearViolations,
		defs.Warnings,
		defs.TempMute,
		defs.Unmute,
		defs.TempBan,
		defs.Unban,
		defs.Warn,
		defs.Kick,
		defs.ModHistory,
		defs.Logs,
		defs.Lockdown,
		defs.Quarantine,
		defs.TrustLevel,
		defs.LogChannel,
		defs.AutoMod,
		defs.BlockedDomains,
		defs.BotInfo,
		defs.Reload,
	}
}
