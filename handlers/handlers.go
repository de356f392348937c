package handlers

import (
	"discord-modbot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("p", "handlers")

// Register wires every gateway event and slash command to the bot.
func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	b.ComponentHandlers = componentHandlers(b)
	addHandlers(b)
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.WithField("user", r.User.Username).WithField("guilds", len(r.Guilds)).Info("Logged in")
	})
	b.Session.AddHandler(onMessageCreate(b))
	b.Session.AddHandler(onMessageUpdate(b))
	b.Session.AddHandler(onMessageDelete(b))
	b.Session.AddHandler(onMemberAdd(b))
	b.Session.AddHandler(onMemberRemove(b))
	b.Session.AddHandler(onMemberUpdate(b))
	b.Session.AddHandler(onRoleCreate(b))
	b.Session.AddHandler(onRoleDelete(b))
	b.Session.AddHandler(onChannelCreate(b))
	b.Session.AddHandler(onChannelDelete(b))
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
}
