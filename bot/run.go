package bot

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-modbot/commands"
	"discord-modbot/utils"

	"emperror.dev/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run connects the bot, registers slash commands, starts the background sweeps and
// blocks until SIGINT or SIGTERM.
func (b *Bot) Run() error {
	me, err := b.Session.User("@me")
	if err != nil {
		return err
	}
	b.StartedAt = time.Now()
	b.startModeration(me.ID)

	if err := b.Session.Open(); err != nil {
		return err
	}

	logger.Info("Registering commands...")
	cfg := b.GetConfig()
	registered, err := b.Session.ApplicationCommandBulkOverwrite(me.ID, "", commands.GenerateCommands())
	if err != nil {
		logger.WithError(err).Error("cannot register commands")
		utils.LogError(b.Session, cfg.LogChannelID, "System", "Register commands", err.Error())
	} else {
		b.RegisteredCommands = registered
		logger.WithField("commands", len(registered)).Info("commands registered")
	}

	b.scheduler.Start()
	b.startMetrics()

	logger.WithField("user", me.Username).Info("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Session, cfg.LogChannelID, "System", "Startup", "Bot has started successfully.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

func (b *Bot) startMetrics() {
	addr := b.GetConfig().MetricsAddr
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	b.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.WithField("addr", addr).Info("serving metrics")
		if err := b.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server stopped")
		}
	}()
}
