package moderation

import (
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

// StartLockdown locks the guild for d. It returns false without side effects when a
// lockdown is already active.
func (s *Service) StartLockdown(guildID, reason string, d time.Duration) (LockdownState, bool) {
	if d <= 0 {
		d = s.opts.RaidLockdownDuration
	}
	g := s.guild(guildID)

	g.mu.Lock()
	state, ok := g.beginLockdown(reason, d, s.now())
	g.mu.Unlock()
	if !ok {
		return state, false
	}

	lockdownsCounter.WithLabelValues("manual").Inc()
	s.lockdownStarted(g, state)
	return state, true
}

// lockdownStarted does the platform side of a lockdown the guild state already recorded.
// The lockdown stays active even if the permission edit fails.
func (s *Service) lockdownStarted(g *guildState, state LockdownState) {
	s.scheduleAction(model.TempAction{GuildID: g.id, Kind: model.TempLockdown, ExpiresAt: state.EndsAt})

	revoked, err := s.setEveryoneSend(g.id, false, "Security lockdown: "+state.Reason)
	if err != nil {
		logger.WithError(err).WithField("guild", g.id).Error("failed locking @everyone send permission")
	}
	if revoked {
		g.mu.Lock()
		current := g.lockdown.Active && g.lockdown.IncidentID == state.IncidentID
		if current {
			g.lockdown.sendRevoked = true
		}
		g.mu.Unlock()

		// ended before the edit landed
		if !current {
			if _, err := s.setEveryoneSend(g.id, true, "Lockdown ended: "+state.Reason); err != nil {
				logger.WithError(err).WithField("guild", g.id).Error("failed restoring @everyone send permission")
			}
		}
	}

	logger.WithField("guild", g.id).WithField("incident", state.IncidentID).Warn("lockdown initiated: " + state.Reason)
	s.sendActionLog(ActionLog{
		GuildID:    g.id,
		Action:     "lockdown_initiated",
		Reason:     state.Reason,
		IncidentID: state.IncidentID,
		Timestamp:  state.StartedAt,
	})
	s.recordAction(model.ModActionRecord{
		GuildID:         g.id,
		Action:          model.ActionLockdown,
		TargetID:        g.id,
		ModeratorID:     s.opts.BotUserID,
		Reason:          state.Reason,
		DurationSeconds: int64(state.EndsAt.Sub(state.StartedAt) / time.Second),
		CreatedAt:       state.StartedAt,
		Extra:           extraJSON(map[string]string{"incident_id": state.IncidentID}),
	})
}

// EndLockdown cancels the pending automatic lift and reports whether a lockdown was
// active. SEND_MESSAGES is granted back only if the lockdown took it away; if that edit
// fails the lockdown stays active and its lift is rescheduled.
func (s *Service) EndLockdown(guildID, reason string) (bool, error) {
	s.cancelAction(guildID, "", model.TempLockdown)

	g := s.guild(guildID)
	g.mu.Lock()
	prev := g.lockdown
	if prev.Active {
		g.lockdown = LockdownState{}
		g.raidFlagged = make(map[string]struct{})
	}
	g.mu.Unlock()

	if !prev.Active {
		return false, nil
	}

	if prev.sendRevoked {
		_, err := s.setEveryoneSend(guildID, true, "Lockdown ended: "+reason)
		if err = ignoreNotFound(err); err != nil {
			g.mu.Lock()
			if !g.lockdown.Active {
				g.lockdown = prev
			}
			g.mu.Unlock()
			s.scheduleAction(model.TempAction{GuildID: guildID, Kind: model.TempLockdown, ExpiresAt: prev.EndsAt})
			return true, err
		}
	}

	now := s.now()
	s.sendActionLog(ActionLog{
		GuildID:    guildID,
		Action:     "lockdown_lifted",
		Reason:     reason,
		IncidentID: prev.IncidentID,
		Timestamp:  now,
	})
	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionUnlock,
		TargetID:    guildID,
		ModeratorID: s.opts.BotUserID,
		Reason:      reason,
		CreatedAt:   now,
		Extra:       extraJSON(map[string]string{"incident_id": prev.IncidentID}),
	})
	return true, nil
}

// Lockdown returns the guild's current lockdown state.
func (s *Service) Lockdown(guildID string) LockdownState {
	g := s.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lockdown
}

// setEveryoneSend toggles SEND_MESSAGES on the @everyone role, whose id equals the guild id.
// changed is false when the role already had the requested value.
func (s *Service) setEveryoneSend(guildID string, allow bool, reason string) (changed bool, err error) {
	roles, err := s.platform.GuildRoles(guildID)
	if err != nil {
		return false, errors.WithMessage(err, "list roles")
	}
	for _, r := range roles {
		if r.ID != guildID {
			continue
		}
		perms := r.Permissions &^ discordgo.PermissionSendMessages
		if allow {
			perms = r.Permissions | discordgo.PermissionSendMessages
		}
		if perms == r.Permissions {
			return false, nil
		}
		if err := s.platform.EditRolePermissions(guildID, r.ID, perms, reason); err != nil {
			return false, errors.WithMessage(err, "edit @everyone")
		}
		return true, nil
	}
	return false, errors.WithMessage(ErrNotFound, "@everyone role")
}
