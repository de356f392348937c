package bot

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"discord-modbot/config"
	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"
	"discord-modbot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("p", "bot")

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	ComponentHandlers  map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB
	Settings           *database.SettingsStore
	Audit              *database.AuditStore
	ActionLock         *utils.ActionLock
	StartedAt          time.Time

	moderation atomic.Pointer[moderation.Service]
	scheduler  *Scheduler
	metrics    *http.Server
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

// Moderation returns the moderation core, or nil before Run has started it.
func (b *Bot) Moderation() *moderation.Service {
	return b.moderation.Load()
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	// cached messages give edits a before-content
	dg.State.MaxMessageCount = 50

	b := &Bot{
		Session:    dg,
		DB:         db,
		Settings:   database.NewSettingsStore(db, cfg.Moderation),
		Audit:      database.NewAuditStore(db),
		ActionLock: utils.NewActionLock(5 * time.Second),
	}
	b.config.Store(cfg)
	return b, nil
}

// startModeration builds the moderation core for the logged-in bot user.
func (b *Bot) startModeration(botUserID string) {
	cfg := b.GetConfig()
	svc := moderation.NewService(NewPlatform(b.Session), b.Settings, b.Audit, moderation.Options{
		BotUserID:            botUserID,
		AllowedDomains:       cfg.AllowedDomains,
		RaidLockdownDuration: cfg.RaidLockdownDuration,
		AlertsPerMinute:      cfg.AlertsPerMinute,
	})
	b.moderation.Store(svc)
	b.scheduler = NewScheduler(svc, cfg.Scheduler)
}

func (b *Bot) Close() {
	logger.Info("Gracefully shutting down.")

	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.metrics.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("metrics server shutdown")
		}
	}
	utils.LogWarn(b.Session, b.GetConfig().LogChannelID, "System", "Shutdown", "Bot is shutting down.")
	if err := b.Session.Close(); err != nil {
		logger.WithError(err).Warn("closing session")
	}
}

// ReloadConfig re-reads configuration. Logging, and the automod defaults for guilds
// without stored settings, take effect immediately; everything else needs a restart.
func (b *Bot) ReloadConfig() error {
	logger.Info("Reloading configuration...")
	newCfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Error("Error reloading config")
		return err
	}

	utils.SetupLogging(newCfg.LogLevel, newCfg.LogJSON)
	b.Settings.SetDefaults(newCfg.Moderation)
	b.config.Store(newCfg)
	logger.Info("Configuration reloaded successfully.")
	return nil
}
