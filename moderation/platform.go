package moderation

import (
	"fmt"
	"time"

	"discord-modbot/model"
)

// ChannelKind is the subset of channel types the moderation core cares about.
type ChannelKind int

const (
	ChannelOther ChannelKind = iota
	ChannelText
	ChannelVoice
	ChannelStage
)

type Role struct {
	ID          string
	Name        string
	Permissions int64
}

type Channel struct {
	ID   string
	Name string
	Kind ChannelKind
}

// WarningNotice is the private message a member gets for a low-count violation or a
// moderator's warning. ChannelName is empty for the latter.
type WarningNotice struct {
	GuildName   string
	ChannelName string
	Reason      string
	Count       int
	NextMayMute bool
}

func (n WarningNotice) Title() string {
	return fmt.Sprintf("Warning #%d", n.Count)
}

// LogEntry is written to the moderation log channel for every enforcement.
type LogEntry struct {
	GuildID     string
	UserID      string
	UserName    string
	ChannelID   string
	Count       int
	Category    Category
	Reason      string
	ActionTaken string
	Content     string
	Timestamp   time.Time
}

// SecurityAlert is sent when a member's reputation is lowered.
type SecurityAlert struct {
	GuildID        string
	UserID         string
	UserName       string
	Reason         string
	Severity       Severity
	Score          int
	TrustLevel     TrustLevel
	ViolationCount int
	Timestamp      time.Time
}

// ActionLog records guild-level security actions (lockdown, quarantine, overrides).
type ActionLog struct {
	GuildID    string
	Action     string
	TargetID   string
	Reason     string
	IncidentID string
	Timestamp  time.Time
}

// Platform is every outbound call the moderation core makes against the chat platform.
// Implementations return ErrPermissionDenied and ErrNotFound (possibly wrapped) for the
// corresponding platform refusals.
type Platform interface {
	DeleteMessage(channelID, messageID string) error
	SendDirectMessage(userID string, notice WarningNotice) error
	Timeout(guildID, userID string, until time.Time, reason string) error
	AddRole(guildID, userID, roleID, reason string) error
	RemoveRole(guildID, userID, roleID, reason string) error
	CreateRole(guildID, name string, color int, permissions int64, reason string) (Role, error)
	GuildRoles(guildID string) ([]Role, error)
	GuildChannels(guildID string) ([]Channel, error)
	DenyChannelPermissions(channelID, roleID string, deny int64, reason string) error
	EditRolePermissions(guildID, roleID string, permissions int64, reason string) error
	Ban(guildID, userID, reason string, deleteDays int) error
	Unban(guildID, userID, reason string) error
	Kick(guildID, userID, reason string) error
	ResolveInvite(code string) (guildID string, err error)
	SetNickname(guildID, userID, nickname, reason string) error
	SendLogEntry(channelID string, entry LogEntry) error
	SendSecurityAlert(channelID string, alert SecurityAlert) error
	SendActionLog(channelID string, entry ActionLog) error
}

// SettingsProvider is the read accessor for per-guild configuration, plus the single
// write-back path used when the core creates a mute role.
type SettingsProvider interface {
	ModerationConfig(guildID string) (model.ModerationConfig, error)
	GuildRouting(guildID string) (model.GuildRouting, error)
	BlockedDomains(guildID string) ([]string, error)
	SetMuteRole(guildID, roleID string) error
}

// AuditSink persists warnings and moderation actions.
type AuditSink interface {
	RecordWarning(rec model.WarningRecord) error
	RecordAction(rec model.ModActionRecord) error
	Warnings(guildID, userID string) ([]model.WarningRecord, error)
}

// Message is an inbound message, already flattened from the gateway event.
type Message struct {
	ID          string
	GuildID     string
	GuildName   string
	ChannelID   string
	ChannelName string
	AuthorID    string
	AuthorName  string
	Content     string
	Timestamp   time.Time

	UserMentions int
	RoleMentions int
	Attachments  []string

	AuthorIsBot   bool
	AuthorIsAdmin bool
}

// Member is an inbound member-joined or member-updated event.
type Member struct {
	GuildID     string
	UserID      string
	Username    string
	DisplayName string
	CreatedAt   time.Time
	JoinedAt    time.Time
	HasAvatar   bool
	IsBot       bool
}
