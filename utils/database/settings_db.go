package database

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/jmoiron/sqlx"
	"github.com/patrickmn/go-cache"
)

const settingsCacheTTL = 5 * time.Minute

type automodRow struct {
	GuildID string `db:"guild_id"`
	model.ModerationConfig
}

// SettingsStore serves per-guild moderation settings out of sqlite. Reads are cached for a
// few minutes; every write through the store invalidates its guild.
type SettingsStore struct {
	db    *sqlx.DB
	cache *cache.Cache

	mu       sync.RWMutex
	defaults model.ModerationConfig
}

// NewSettingsStore creates a store; defaults apply to guilds with no automod row.
func NewSettingsStore(db *sqlx.DB, defaults model.ModerationConfig) *SettingsStore {
	return &SettingsStore{
		db:       db,
		defaults: defaults,
		cache:    cache.New(settingsCacheTTL, 2*settingsCacheTTL),
	}
}

// SetDefaults replaces the configuration served to guilds with no automod row.
func (s *SettingsStore) SetDefaults(defaults model.ModerationConfig) {
	s.mu.Lock()
	s.defaults = defaults
	s.mu.Unlock()
	s.cache.Flush()
}

func (s *SettingsStore) currentDefaults() model.ModerationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

func configKey(guildID string) string  { return "automod:" + guildID }
func routingKey(guildID string) string { return "routing:" + guildID }
func blockedKey(guildID string) string { return "blocked:" + guildID }

// ModerationConfig returns the guild's automod configuration.
func (s *SettingsStore) ModerationConfig(guildID string) (model.ModerationConfig, error) {
	if v, ok := s.cache.Get(configKey(guildID)); ok {
		return v.(model.ModerationConfig), nil
	}

	var row automodRow
	err := s.db.Get(&row, "SELECT * FROM automod_settings WHERE guild_id = ?", guildID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		row.ModerationConfig = s.currentDefaults()
	case err != nil:
		return s.currentDefaults(), errors.WithMessagef(err, "loading automod settings for guild %s", guildID)
	}
	if !row.RaidProtectionLevel.Valid() {
		row.RaidProtectionLevel = model.RaidLevelMedium
	}

	s.cache.Set(configKey(guildID), row.ModerationConfig, cache.DefaultExpiration)
	return row.ModerationConfig, nil
}

// UpdateModerationConfig replaces the guild's automod configuration.
func (s *SettingsStore) UpdateModerationConfig(guildID string, cfg model.ModerationConfig) error {
	const query = `INSERT INTO automod_settings (guild_id, spam_detection, auto_delete_invites, profanity_filter,
		link_filter, caps_filter, repeated_text_filter, auto_dehoist, raid_protection, auto_quarantine,
		max_mentions, max_emoji, account_age_requirement_days, suspicious_activity_threshold, raid_protection_level)
	VALUES (:guild_id, :spam_detection, :auto_delete_invites, :profanity_filter,
		:link_filter, :caps_filter, :repeated_text_filter, :auto_dehoist, :raid_protection, :auto_quarantine,
		:max_mentions, :max_emoji, :account_age_requirement_days, :suspicious_activity_threshold, :raid_protection_level)
	ON CONFLICT(guild_id) DO UPDATE SET
		spam_detection = excluded.spam_detection,
		auto_delete_invites = excluded.auto_delete_invites,
		profanity_filter = excluded.profanity_filter,
		link_filter = excluded.link_filter,
		caps_filter = excluded.caps_filter,
		repeated_text_filter = excluded.repeated_text_filter,
		auto_dehoist = excluded.auto_dehoist,
		raid_protection = excluded.raid_protection,
		auto_quarantine = excluded.auto_quarantine,
		max_mentions = excluded.max_mentions,
		max_emoji = excluded.max_emoji,
		account_age_requirement_days = excluded.account_age_requirement_days,
		suspicious_activity_threshold = excluded.suspicious_activity_threshold,
		raid_protection_level = excluded.raid_protection_level`

	if !cfg.RaidProtectionLevel.Valid() {
		return errors.Errorf("invalid raid protection level %q", cfg.RaidProtectionLevel)
	}
	if _, err := s.db.NamedExec(query, automodRow{GuildID: guildID, ModerationConfig: cfg}); err != nil {
		return errors.WithMessagef(err, "saving automod settings for guild %s", guildID)
	}
	s.cache.Delete(configKey(guildID))
	return nil
}

// GuildRouting returns the guild's log channels and mute role. A guild with no row has none.
func (s *SettingsStore) GuildRouting(guildID string) (model.GuildRouting, error) {
	if v, ok := s.cache.Get(routingKey(guildID)); ok {
		return v.(model.GuildRouting), nil
	}

	var routing model.GuildRouting
	err := s.db.Get(&routing, "SELECT mod_log_channel_id, event_log_channel_id, mute_role_id FROM guild_settings WHERE guild_id = ?", guildID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return routing, errors.WithMessagef(err, "loading routing for guild %s", guildID)
	}

	s.cache.Set(routingKey(guildID), routing, cache.DefaultExpiration)
	return routing, nil
}

// SetMuteRole stores the role used by automatic and manual mutes.
func (s *SettingsStore) SetMuteRole(guildID, roleID string) error {
	return s.setRouting(guildID, "mute_role_id", roleID)
}

// SetModLogChannel stores the channel enforcement logs and security alerts go to.
func (s *SettingsStore) SetModLogChannel(guildID, channelID string) error {
	return s.setRouting(guildID, "mod_log_channel_id", channelID)
}

// SetEventLogChannel stores the channel member, message and server events go to.
func (s *SettingsStore) SetEventLogChannel(guildID, channelID string) error {
	return s.setRouting(guildID, "event_log_channel_id", channelID)
}

func (s *SettingsStore) setRouting(guildID, column, value string) error {
	// column is one of the constants above, never user input.
	query := `INSERT INTO guild_settings (guild_id, ` + column + `) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET ` + column + ` = excluded.` + column
	if _, err := s.db.Exec(query, guildID, value); err != nil {
		return errors.WithMessagef(err, "saving %s for guild %s", column, guildID)
	}
	s.cache.Delete(routingKey(guildID))
	return nil
}

// BlockedDomains returns the domains the guild blocked, sorted.
func (s *SettingsStore) BlockedDomains(guildID string) ([]string, error) {
	if v, ok := s.cache.Get(blockedKey(guildID)); ok {
		return v.([]string), nil
	}

	var domains []string
	if err := s.db.Select(&domains, "SELECT domain FROM blocked_domains WHERE guild_id = ? ORDER BY domain", guildID); err != nil {
		return nil, errors.WithMessagef(err, "loading blocked domains for guild %s", guildID)
	}

	s.cache.Set(blockedKey(guildID), domains, cache.DefaultExpiration)
	return domains, nil
}

// AddBlockedDomain blocks domain in the guild and returns it normalized. It reports false
// if the domain was already blocked.
func (s *SettingsStore) AddBlockedDomain(guildID, domain string) (string, bool, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return "", false, errors.New("empty domain")
	}
	res, err := s.db.Exec("INSERT OR IGNORE INTO blocked_domains (guild_id, domain) VALUES (?, ?)", guildID, domain)
	if err != nil {
		return domain, false, errors.WithMessagef(err, "blocking %s for guild %s", domain, guildID)
	}
	s.cache.Delete(blockedKey(guildID))
	n, err := res.RowsAffected()
	return domain, n > 0, err
}

// RemoveBlockedDomain unblocks domain in the guild. It reports false if it was not blocked.
func (s *SettingsStore) RemoveBlockedDomain(guildID, domain string) (bool, error) {
	domain = NormalizeDomain(domain)
	res, err := s.db.Exec("DELETE FROM blocked_domains WHERE guild_id = ? AND domain = ?", guildID, domain)
	if err != nil {
		return false, errors.WithMessagef(err, "unblocking %s for guild %s", domain, guildID)
	}
	s.cache.Delete(blockedKey(guildID))
	n, err := res.RowsAffected()
	return n > 0, err
}

// NormalizeDomain lower-cases a domain and strips a scheme, path and leading "www.".
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(domain, "://"); i >= 0 {
		domain = domain[i+3:]
	}
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	return strings.TrimPrefix(domain, "www.")
}
