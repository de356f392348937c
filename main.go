package main

import (
	"discord-modbot/bot"
	"discord-modbot/config"
	"discord-modbot/handlers"
	"discord-modbot/utils"
	"discord-modbot/utils/database"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Error loading config")
	}
	utils.SetupLogging(cfg.LogLevel, cfg.LogJSON)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logrus.WithError(err).Fatal("Error initializing database")
	}
	defer db.Close()

	b, err := bot.New(cfg, db)
	if err != nil {
		logrus.WithError(err).Fatal("Error creating bot")
	}

	handlers.Register(b)

	if err := b.Run(); err != nil {
		logrus.WithError(err).Error("Bot stopped with error")
	}
	b.Close()
}
