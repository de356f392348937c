package model

import "time"

// Moderation action kinds stored in the mod_actions table.
const (
	ActionTimeout    = "timeout"
	ActionMute       = "mute"
	ActionUnmute     = "unmute"
	ActionBan        = "ban"
	ActionUnban      = "unban"
	ActionLockdown   = "lockdown"
	ActionUnlock     = "unlock"
	ActionQuarantine = "quarantine"
	ActionRelease    = "unquarantine"
	ActionTrustLevel = "trust_level"
	ActionWarn       = "warn"
	ActionKick       = "kick"
)

// WarningRecord is a single warning issued to a member.
// The database table will be named 'warnings'.
type WarningRecord struct {
	ID          int64     `db:"id"` // Primary Key, Auto-increment
	GuildID     string    `db:"guild_id"`
	UserID      string    `db:"user_id"`
	ModeratorID string    `db:"moderator_id"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

// ModActionRecord represents one moderation action in the database.
// The database table will be named 'mod_actions'.
type ModActionRecord struct {
	ID              int64     `db:"id"`
	GuildID         string    `db:"guild_id"`
	Action          string    `db:"action"`
	TargetID        string    `db:"target_id"`
	ModeratorID     string    `db:"moderator_id"`
	Reason          string    `db:"reason"`
	DurationSeconds int64     `db:"duration_seconds"`
	CreatedAt       time.Time `db:"created_at"`
	Extra           string    `db:"extra"` // JSON object, "{}" when empty
}
