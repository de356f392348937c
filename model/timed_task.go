package model

import "time"

// TempActionKind identifies what a scheduled expiry undoes.
type TempActionKind string

const (
	TempMute     TempActionKind = "mute"
	TempBan      TempActionKind = "ban"
	TempLockdown TempActionKind = "lockdown"
)

// TempAction is a punishment (or lockdown) to be lifted at ExpiresAt.
// Lockdowns are guild-wide and carry an empty UserID.
type TempAction struct {
	GuildID   string
	UserID    string
	Kind      TempActionKind
	RoleID    string
	ExpiresAt time.Time
}
