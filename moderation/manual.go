package moderation

import (
	"discord-modbot/model"

	"emperror.dev/errors"
)

// Warn records a moderator's warning and tells the member about it. It returns the
// member's stored warning count, this one included. A member with closed DMs is still
// warned.
func (s *Service) Warn(guildID, guildName, userID, moderatorID, reason string) (int, error) {
	if s.audit == nil {
		return 0, errors.New("no audit store configured")
	}
	now := s.now()
	if err := s.audit.RecordWarning(model.WarningRecord{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   now,
	}); err != nil {
		return 0, errors.WithMessage(err, "record warning")
	}
	warnings, err := s.audit.Warnings(guildID, userID)
	if err != nil {
		return 0, errors.WithMessage(err, "count warnings")
	}
	count := len(warnings)

	if err := s.platform.SendDirectMessage(userID, WarningNotice{GuildName: guildName, Reason: reason, Count: count}); err != nil {
		logger.WithError(err).WithField("guild", guildID).WithField("user", userID).Debug("could not DM warned member")
	}

	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionWarn,
		TargetID:    userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   now,
	})
	s.sendActionLog(ActionLog{GuildID: guildID, Action: "warn", TargetID: userID, Reason: reason, Timestamp: now})
	return count, nil
}

// Kick removes the member from the guild.
func (s *Service) Kick(guildID, userID, moderatorID, reason string) error {
	if err := s.platform.Kick(guildID, userID, reason); err != nil {
		return errors.WithMessage(err, "kick")
	}

	now := s.now()
	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionKick,
		TargetID:    userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   now,
	})
	s.sendActionLog(ActionLog{GuildID: guildID, Action: "kick", TargetID: userID, Reason: reason, Timestamp: now})
	return nil
}
