package config

import (
	"os"
	"strings"
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultConfigPath = "data/config.yaml"

var logger = logrus.WithField("p", "config")

// Load loads the configuration from .env, environment variables and an optional YAML file.
// Environment variables win over the file; nested keys use underscores, e.g.
// MODERATION_MAX_MENTIONS or SCHEDULER_ERROR_BACKOFF.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, relying on environment variables")
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return load(path)
}

func load(path string) (*model.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "reading %s", path)
		}
	} else if os.IsNotExist(err) {
		logger.WithField("path", path).Info("config file not found, skipping")
	} else {
		return nil, errors.WithMessagef(err, "checking %s", path)
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WithMessage(err, "decoding config")
	}
	cfg.DeveloperUserIDs = compact(cfg.DeveloperUserIDs)
	cfg.AllowedDomains = compact(cfg.AllowedDomains)

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable not set")
	}
	if cfg.LogChannelID == "" {
		logger.Warn("LOG_CHANNEL_ID not set, system logging to discord will be disabled")
	}
	if !cfg.Moderation.RaidProtectionLevel.Valid() {
		return nil, errors.Errorf("invalid moderation.raid_protection_level %q", cfg.Moderation.RaidProtectionLevel)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_token", "")
	v.SetDefault("log_channel_id", "")
	v.SetDefault("database_path", "data/modbot.db")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("developer_user_ids", []string{})
	v.SetDefault("allowed_domains", []string{})
	v.SetDefault("raid_lockdown_duration", 30*time.Minute)
	v.SetDefault("alerts_per_minute", 10)

	v.SetDefault("scheduler.temp_action_interval", time.Minute)
	v.SetDefault("scheduler.reputation_interval", time.Minute)
	v.SetDefault("scheduler.error_backoff", 60*time.Second)

	d := model.DefaultModerationConfig()
	v.SetDefault("moderation.spam_detection", d.SpamDetection)
	v.SetDefault("moderation.auto_delete_invites", d.AutoDeleteInvites)
	v.SetDefault("moderation.profanity_filter", d.ProfanityFilter)
	v.SetDefault("moderation.link_filter", d.LinkFilter)
	v.SetDefault("moderation.caps_filter", d.CapsFilter)
	v.SetDefault("moderation.repeated_text_filter", d.RepeatedTextFilter)
	v.SetDefault("moderation.auto_dehoist", d.AutoDehoist)
	v.SetDefault("moderation.raid_protection", d.RaidProtection)
	v.SetDefault("moderation.auto_quarantine", d.AutoQuarantine)
	v.SetDefault("moderation.max_mentions", d.MaxMentions)
	v.SetDefault("moderation.max_emoji", d.MaxEmoji)
	v.SetDefault("moderation.account_age_requirement_days", d.AccountAgeRequirementDays)
	v.SetDefault("moderation.suspicious_activity_threshold", d.SuspiciousActivityThreshold)
	v.SetDefault("moderation.raid_protection_level", string(d.RaidProtectionLevel))
}

// compact drops empty entries left by splitting an unset or trailing-comma list.
func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
