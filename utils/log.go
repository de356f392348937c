package utils

import (
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

// SetupLogging configures the global logrus logger. Unknown levels fall back to info.
func SetupLogging(level string, json bool) {
	logrus.SetOutput(os.Stdout)
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
		if level != "" {
			logrus.WithField("level", level).Warn("unknown log level, using info")
		}
	}
	logrus.SetLevel(lvl)
}

// systemLogEmbed renders a bot lifecycle event for the developer log channel.
func systemLogEmbed(level LogLevel, module, operation, extraInfo string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: LevelColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: orDash(extraInfo)},
		},
	}
}

func sendLog(s *discordgo.Session, channelID string, level LogLevel, module, operation, extraInfo string) {
	if channelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, systemLogEmbed(level, module, operation, extraInfo)); err != nil {
		logrus.WithError(err).WithField("channel", channelID).Warn("failed to send system log")
	}
}

func LogInfo(s *discordgo.Session, channelID, module, operation, extraInfo string) {
	sendLog(s, channelID, Info, module, operation, extraInfo)
}

func LogWarn(s *discordgo.Session, channelID, module, operation, extraInfo string) {
	sendLog(s, channelID, Warn, module, operation, extraInfo)
}

func LogError(s *discordgo.Session, channelID, module, operation, extraInfo string) {
	sendLog(s, channelID, Error, module, operation, extraInfo)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
