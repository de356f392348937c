package moderation

import (
	"time"

	"discord-modbot/model"
	"discord-modbot/utils"

	"emperror.dev/errors"
)

func parsePunishmentDuration(text string) (time.Duration, error) {
	d, ok := utils.ParseDuration(text)
	if !ok || d <= 0 {
		return 0, errors.WithMessage(ErrMalformedDuration, text)
	}
	return d, nil
}

// TempMute mutes the member for the parsed duration. A malformed duration is rejected
// before anything is changed.
func (s *Service) TempMute(guildID, userID, moderatorID, duration, reason string) (time.Duration, error) {
	d, err := parsePunishmentDuration(duration)
	if err != nil {
		return 0, err
	}

	g := s.guild(guildID)
	roleID, err := s.ensureMuteRole(g)
	if err != nil {
		return 0, err
	}
	if err := s.platform.AddRole(guildID, userID, roleID, reason); err != nil {
		return 0, errors.WithMessage(err, "add mute role")
	}

	now := s.now()
	s.scheduleAction(model.TempAction{GuildID: guildID, UserID: userID, Kind: model.TempMute, RoleID: roleID, ExpiresAt: now.Add(d)})
	s.recordAction(model.ModActionRecord{
		GuildID:         guildID,
		Action:          model.ActionMute,
		TargetID:        userID,
		ModeratorID:     moderatorID,
		Reason:          reason,
		DurationSeconds: int64(d / time.Second),
		CreatedAt:       now,
	})
	return d, nil
}

// Unmute lifts a mute early and cancels its scheduled expiry.
func (s *Service) Unmute(guildID, userID, moderatorID, reason string) error {
	roleID := ""
	if a, ok := s.PendingAction(guildID, userID, model.TempMute); ok {
		roleID = a.RoleID
	}
	s.cancelAction(guildID, userID, model.TempMute)

	if roleID == "" {
		var err error
		if roleID, err = s.muteRole(s.guild(guildID)); err != nil {
			return err
		}
	}
	if err := ignoreNotFound(s.platform.RemoveRole(guildID, userID, roleID, reason)); err != nil {
		return errors.WithMessage(err, "remove mute role")
	}

	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionUnmute,
		TargetID:    userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   s.now(),
	})
	return nil
}

// TempBan bans the member and schedules the unban.
func (s *Service) TempBan(guildID, userID, moderatorID, duration, reason string, deleteDays int) (time.Duration, error) {
	d, err := parsePunishmentDuration(duration)
	if err != nil {
		return 0, err
	}
	if err := s.platform.Ban(guildID, userID, reason, deleteDays); err != nil {
		return 0, errors.WithMessage(err, "ban")
	}

	now := s.now()
	s.scheduleAction(model.TempAction{GuildID: guildID, UserID: userID, Kind: model.TempBan, ExpiresAt: now.Add(d)})
	s.recordAction(model.ModActionRecord{
		GuildID:         guildID,
		Action:          model.ActionBan,
		TargetID:        userID,
		ModeratorID:     moderatorID,
		Reason:          reason,
		DurationSeconds: int64(d / time.Second),
		CreatedAt:       now,
	})
	return d, nil
}

// Unban lifts a ban early and cancels its scheduled expiry.
func (s *Service) Unban(guildID, userID, moderatorID, reason string) error {
	s.cancelAction(guildID, userID, model.TempBan)
	if err := ignoreNotFound(s.platform.Unban(guildID, userID, reason)); err != nil {
		return errors.WithMessage(err, "unban")
	}
	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionUnban,
		TargetID:    userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   s.now(),
	})
	return nil
}

// SweepTempActions lifts every temp action due at now. Actions that fail with anything
// other than a missing target or missing permission are put back for the next sweep.
func (s *Service) SweepTempActions(now time.Time) error {
	s.schedMu.Lock()
	due := s.schedule.PopDue(now)
	s.schedMu.Unlock()

	var errs []error
	for _, a := range due {
		err := s.expire(a)
		switch {
		case err == nil:
			tempActionsExpired.WithLabelValues(string(a.Kind), "ok").Inc()
		case errors.Is(err, ErrPermissionDenied):
			tempActionsExpired.WithLabelValues(string(a.Kind), "denied").Inc()
			logger.WithError(err).WithField("guild", a.GuildID).WithField("user", a.UserID).Warn("dropping temp action, missing permissions")
		default:
			tempActionsExpired.WithLabelValues(string(a.Kind), "retry").Inc()
			s.retry(a)
			errs = append(errs, errors.WithMessage(err, string(a.Kind)+" expiry for "+a.GuildID+"/"+a.UserID))
		}
	}
	return errors.Combine(errs...)
}

// retry puts a failed expiry back unless something newer was scheduled for the same key.
func (s *Service) retry(a model.TempAction) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	if _, ok := s.schedule.Get(a.GuildID, a.UserID, a.Kind); ok {
		return
	}
	s.schedule.Add(a)
}

func (s *Service) expire(a model.TempAction) error {
	switch a.Kind {
	case model.TempMute:
		return ignoreNotFound(s.platform.RemoveRole(a.GuildID, a.UserID, a.RoleID, "Mute expired"))
	case model.TempBan:
		return ignoreNotFound(s.platform.Unban(a.GuildID, a.UserID, "Temporary ban expired"))
	case model.TempLockdown:
		_, err := s.EndLockdown(a.GuildID, "Automatic lockdown expiry")
		return ignoreNotFound(err)
	}
	return errors.Errorf("unknown temp action kind %q", a.Kind)
}
