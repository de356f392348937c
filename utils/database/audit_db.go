package database

import (
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/jmoiron/sqlx"
)

// AuditStore persists warnings and moderation actions.
type AuditStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewAuditStore(db *sqlx.DB) *AuditStore {
	return &AuditStore{db: db, now: time.Now}
}

// RecordWarning adds a new warning record to the database.
func (s *AuditStore) RecordWarning(rec model.WarningRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	query := `INSERT INTO warnings (guild_id, user_id, moderator_id, reason, created_at)
		VALUES (:guild_id, :user_id, :moderator_id, :reason, :created_at)`

	if _, err := s.db.NamedExec(query, rec); err != nil {
		return errors.WithMessage(err, "failed to insert warning record")
	}
	return nil
}

// RecordAction adds a new moderation action record to the database.
func (s *AuditStore) RecordAction(rec model.ModActionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if rec.Extra == "" {
		rec.Extra = "{}"
	}
	query := `INSERT INTO mod_actions (guild_id, action, target_id, moderator_id, reason, duration_seconds, created_at, extra)
		VALUES (:guild_id, :action, :target_id, :moderator_id, :reason, :duration_seconds, :created_at, :extra)`

	if _, err := s.db.NamedExec(query, rec); err != nil {
		return errors.WithMessagef(err, "failed to insert %s action", rec.Action)
	}
	return nil
}

// Warnings retrieves a member's warnings, newest first.
func (s *AuditStore) Warnings(guildID, userID string) ([]model.WarningRecord, error) {
	var records []model.WarningRecord
	query := "SELECT * FROM warnings WHERE guild_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC"
	if err := s.db.Select(&records, query, guildID, userID); err != nil {
		return nil, errors.WithMessagef(err, "failed to get warnings for user %s", userID)
	}
	return records, nil
}

// ClearWarnings deletes a member's warnings and returns how many were removed.
func (s *AuditStore) ClearWarnings(guildID, userID string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM warnings WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if err != nil {
		return 0, errors.WithMessagef(err, "failed to clear warnings for user %s", userID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.WithMessage(err, "failed to check rows affected")
	}
	return n, nil
}

// Actions retrieves up to limit moderation actions against a target, newest first.
func (s *AuditStore) Actions(guildID, targetID string, limit int) ([]model.ModActionRecord, error) {
	var records []model.ModActionRecord
	query := "SELECT * FROM mod_actions WHERE guild_id = ? AND target_id = ? ORDER BY created_at DESC, id DESC LIMIT ?"
	if err := s.db.Select(&records, query, guildID, targetID, limit); err != nil {
		return nil, errors.WithMessagef(err, "failed to get actions for target %s", targetID)
	}
	return records, nil
}
