package model

import (
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
)

// RaidProtectionLevel selects how many joins inside the raid window trigger a lockdown.
type RaidProtectionLevel string

const (
	RaidLevelLow     RaidProtectionLevel = "low"
	RaidLevelMedium  RaidProtectionLevel = "medium"
	RaidLevelHigh    RaidProtectionLevel = "high"
	RaidLevelMaximum RaidProtectionLevel = "maximum"
)

// Valid reports whether l is one of the known levels.
func (l RaidProtectionLevel) Valid() bool {
	switch l {
	case RaidLevelLow, RaidLevelMedium, RaidLevelHigh, RaidLevelMaximum:
		return true
	}
	return false
}

// ModerationConfig is the per-guild automod configuration. The moderation core only reads it.
type ModerationConfig struct {
	SpamDetection      bool `db:"spam_detection" mapstructure:"spam_detection"`
	AutoDeleteInvites  bool `db:"auto_delete_invites" mapstructure:"auto_delete_invites"`
	ProfanityFilter    bool `db:"profanity_filter" mapstructure:"profanity_filter"`
	LinkFilter         bool `db:"link_filter" mapstructure:"link_filter"`
	CapsFilter         bool `db:"caps_filter" mapstructure:"caps_filter"`
	RepeatedTextFilter bool `db:"repeated_text_filter" mapstructure:"repeated_text_filter"`
	AutoDehoist        bool `db:"auto_dehoist" mapstructure:"auto_dehoist"`
	RaidProtection     bool `db:"raid_protection" mapstructure:"raid_protection"`
	AutoQuarantine     bool `db:"auto_quarantine" mapstructure:"auto_quarantine"`

	MaxMentions                 int `db:"max_mentions" mapstructure:"max_mentions"`
	MaxEmoji                    int `db:"max_emoji" mapstructure:"max_emoji"`
	AccountAgeRequirementDays   int `db:"account_age_requirement_days" mapstructure:"account_age_requirement_days"`
	SuspiciousActivityThreshold int `db:"suspicious_activity_threshold" mapstructure:"suspicious_activity_threshold"`

	RaidProtectionLevel RaidProtectionLevel `db:"raid_protection_level" mapstructure:"raid_protection_level"`
}

// ModerationConfigKeys lists the settings Set accepts, in display order.
var ModerationConfigKeys = []string{
	"spam_detection", "auto_delete_invites", "profanity_filter", "link_filter", "caps_filter",
	"repeated_text_filter", "auto_dehoist", "raid_protection", "auto_quarantine",
	"max_mentions", "max_emoji", "account_age_requirement_days", "suspicious_activity_threshold",
	"raid_protection_level",
}

func (c *ModerationConfig) bools() map[string]*bool {
	return map[string]*bool{
		"spam_detection":       &c.SpamDetection,
		"auto_delete_invites":  &c.AutoDeleteInvites,
		"profanity_filter":     &c.ProfanityFilter,
		"link_filter":          &c.LinkFilter,
		"caps_filter":          &c.CapsFilter,
		"repeated_text_filter": &c.RepeatedTextFilter,
		"auto_dehoist":         &c.AutoDehoist,
		"raid_protection":      &c.RaidProtection,
		"auto_quarantine":      &c.AutoQuarantine,
	}
}

func (c *ModerationConfig) ints() map[string]*int {
	return map[string]*int{
		"max_mentions":                  &c.MaxMentions,
		"max_emoji":                     &c.MaxEmoji,
		"account_age_requirement_days":  &c.AccountAgeRequirementDays,
		"suspicious_activity_threshold": &c.SuspiciousActivityThreshold,
	}
}

// Set parses value into the setting named key. Counts must be positive.
func (c *ModerationConfig) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if p, ok := c.bools()[key]; ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Errorf("%s takes true or false, got %q", key, value)
		}
		*p = b
		return nil
	}
	if p, ok := c.ints()[key]; ok {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return errors.Errorf("%s takes a positive number, got %q", key, value)
		}
		*p = n
		return nil
	}
	if key == "raid_protection_level" {
		l := RaidProtectionLevel(strings.ToLower(value))
		if !l.Valid() {
			return errors.Errorf("raid_protection_level takes low, medium, high or maximum, got %q", value)
		}
		c.RaidProtectionLevel = l
		return nil
	}
	return errors.Errorf("unknown setting %q", key)
}

// Get formats the setting named key; ok is false for an unknown key.
func (c ModerationConfig) Get(key string) (string, bool) {
	if p, ok := c.bools()[key]; ok {
		return strconv.FormatBool(*p), true
	}
	if p, ok := c.ints()[key]; ok {
		return strconv.Itoa(*p), true
	}
	if key == "raid_protection_level" {
		return string(c.RaidProtectionLevel), true
	}
	return "", false
}

// DefaultModerationConfig is the only place automod defaults are defined.
func DefaultModerationConfig() ModerationConfig {
	return ModerationConfig{
		SpamDetection:      true,
		AutoDeleteInvites:  false,
		ProfanityFilter:    true,
		LinkFilter:         false,
		CapsFilter:         true,
		RepeatedTextFilter: true,
		AutoDehoist:        true,
		RaidProtection:     true,
		AutoQuarantine:     true,

		MaxMentions:                 5,
		MaxEmoji:                    10,
		AccountAgeRequirementDays:   7,
		SuspiciousActivityThreshold: 5,

		RaidProtectionLevel: RaidLevelMedium,
	}
}

// GuildRouting holds the channels and roles the moderation core writes to.
type GuildRouting struct {
	ModLogChannelID string `db:"mod_log_channel_id"`
	// EventLogChannelID receives member, message and server events; empty falls back to
	// the moderation log.
	EventLogChannelID string `db:"event_log_channel_id"`
	MuteRoleID        string `db:"mute_role_id"`
}

// SchedulerConfig controls the background sweep loops.
type SchedulerConfig struct {
	TempActionInterval time.Duration `mapstructure:"temp_action_interval"`
	ReputationInterval time.Duration `mapstructure:"reputation_interval"`
	ErrorBackoff       time.Duration `mapstructure:"error_backoff"`
}

// Config stores the application configuration.
type Config struct {
	BotToken         string   `mapstructure:"bot_token"`
	LogChannelID     string   `mapstructure:"log_channel_id"`
	DatabasePath     string   `mapstructure:"database_path"`
	MetricsAddr      string   `mapstructure:"metrics_addr"`
	LogLevel         string   `mapstructure:"log_level"`
	LogJSON          bool     `mapstructure:"log_json"`
	DeveloperUserIDs []string `mapstructure:"developer_user_ids"`

	// Automod defaults applied to guilds without stored settings.
	Moderation     ModerationConfig `mapstructure:"moderation"`
	AllowedDomains []string         `mapstructure:"allowed_domains"`

	RaidLockdownDuration time.Duration `mapstructure:"raid_lockdown_duration"`
	AlertsPerMinute      int           `mapstructure:"alerts_per_minute"`

	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}
