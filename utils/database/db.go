package database

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS guild_settings (
	guild_id TEXT NOT NULL PRIMARY KEY,
	mod_log_channel_id TEXT NOT NULL DEFAULT '',
	event_log_channel_id TEXT NOT NULL DEFAULT '',
	mute_role_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS blocked_domains (
	guild_id TEXT NOT NULL,
	domain TEXT NOT NULL,
	PRIMARY KEY (guild_id, domain)
);

CREATE TABLE IF NOT EXISTS automod_settings (
	guild_id TEXT NOT NULL PRIMARY KEY,
	spam_detection BOOLEAN NOT NULL,
	auto_delete_invites BOOLEAN NOT NULL,
	profanity_filter BOOLEAN NOT NULL,
	link_filter BOOLEAN NOT NULL,
	caps_filter BOOLEAN NOT NULL,
	repeated_text_filter BOOLEAN NOT NULL,
	auto_dehoist BOOLEAN NOT NULL,
	raid_protection BOOLEAN NOT NULL,
	auto_quarantine BOOLEAN NOT NULL,
	max_mentions INTEGER NOT NULL,
	max_emoji INTEGER NOT NULL,
	account_age_requirement_days INTEGER NOT NULL,
	suspicious_activity_threshold INTEGER NOT NULL,
	raid_protection_level TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS warnings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	moderator_id TEXT NOT NULL,
	reason TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_warnings_member ON warnings (guild_id, user_id);

CREATE TABLE IF NOT EXISTS mod_actions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	action TEXT NOT NULL,
	target_id TEXT NOT NULL,
	moderator_id TEXT NOT NULL,
	reason TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	extra TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_mod_actions_target ON mod_actions (guild_id, target_id);`

// Open connects to the sqlite database at path, creating the file, its directory and the
// moderation tables if needed.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WithMessagef(err, "creating database directory %s", dir)
		}
	}

	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.WithMessage(err, "connecting to database")
	}
	// sqlite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.WithMessage(err, "creating tables")
	}
	return db, nil
}
