package moderation

import (
	"time"
	"unicode/utf8"

	"discord-modbot/model"

	"emperror.dev/errors"
)

const (
	timeoutThreshold = 3
	muteThreshold    = 5

	automodTimeout  = 5 * time.Minute
	automodMuteTime = time.Hour

	logContentLimit = 1000
)

// Penalty is the rung of the ladder a violation count lands on.
type Penalty int

const (
	PenaltyWarn Penalty = iota
	PenaltyTimeout
	PenaltyMute
)

func (p Penalty) String() string {
	switch p {
	case PenaltyTimeout:
		return "timeout"
	case PenaltyMute:
		return "mute"
	}
	return "warn"
}

// Decision is what the ladder prescribes for a post-increment violation count.
type Decision struct {
	Count   int
	Penalty Penalty
	// NextMayMute adds the "further violations" line to the warning.
	NextMayMute bool
}

// Decide maps a violation count onto the punishment ladder.
func Decide(count int) Decision {
	d := Decision{Count: count}
	switch {
	case count >= muteThreshold:
		d.Penalty = PenaltyMute
	case count >= timeoutThreshold:
		d.Penalty = PenaltyTimeout
	default:
		d.Penalty = PenaltyWarn
		d.NextMayMute = count == timeoutThreshold-1
	}
	return d
}

// Enforcement is the outcome of applying one violation.
type Enforcement struct {
	Violation   Violation
	Decision    Decision
	ActionTaken string
}

// messageTarget tracks whether the offending message is already gone so the ladder deletes
// it at most once per message.
type messageTarget struct {
	msg     *Message
	deleted bool
}

func (s *Service) ensureDeleted(t *messageTarget) {
	if t.deleted {
		return
	}
	if err := ignoreNotFound(s.platform.DeleteMessage(t.msg.ChannelID, t.msg.ID)); err != nil {
		logger.WithError(err).WithField("guild", t.msg.GuildID).WithField("channel", t.msg.ChannelID).Warn("failed deleting message")
		return
	}
	t.deleted = true
}

// enforce counts v against the author and runs the prescribed rung.
func (s *Service) enforce(g *guildState, t *messageTarget, v Violation) Enforcement {
	msg := t.msg
	now := s.now()

	g.mu.Lock()
	count := g.ledger.Record(msg.AuthorID, now)
	g.mu.Unlock()

	d := Decide(count)
	violationsCounter.WithLabelValues(string(v.Category), d.Penalty.String()).Inc()

	s.ensureDeleted(t)
	v.Deleted = t.deleted

	var action string
	switch d.Penalty {
	case PenaltyWarn:
		action = s.warn(msg, v, d, now)
	case PenaltyTimeout:
		action = s.automodTimeout(msg, v, now)
	case PenaltyMute:
		action = s.automodMute(g, msg, v, now)
	}

	routing := s.routing(msg.GuildID)
	if routing.ModLogChannelID != "" {
		entry := LogEntry{
			GuildID:     msg.GuildID,
			UserID:      msg.AuthorID,
			UserName:    msg.AuthorName,
			ChannelID:   msg.ChannelID,
			Count:       count,
			Category:    v.Category,
			Reason:      v.Reason,
			ActionTaken: action,
			Content:     truncateRunes(msg.Content, logContentLimit),
			Timestamp:   now,
		}
		if err := s.platform.SendLogEntry(routing.ModLogChannelID, entry); err != nil {
			logger.WithError(err).WithField("guild", msg.GuildID).Warn("failed sending automod log entry")
		}
	}

	return Enforcement{Violation: v, Decision: d, ActionTaken: action}
}

func (s *Service) warn(msg *Message, v Violation, d Decision, now time.Time) string {
	notice := WarningNotice{
		GuildName:   msg.GuildName,
		ChannelName: msg.ChannelName,
		Reason:      v.Reason,
		Count:       d.Count,
		NextMayMute: d.NextMayMute,
	}
	action := "Warning sent"
	if err := s.platform.SendDirectMessage(msg.AuthorID, notice); err != nil {
		// Members with closed DMs are common; the warning still counts.
		logger.WithError(err).WithField("guild", msg.GuildID).WithField("user", msg.AuthorID).Debug("failed sending warning DM")
		action = "Warning recorded (DM failed)"
	}

	s.recordWarning(model.WarningRecord{
		GuildID:     msg.GuildID,
		UserID:      msg.AuthorID,
		ModeratorID: s.opts.BotUserID,
		Reason:      "AutoMod: " + v.Reason,
		CreatedAt:   now,
	})
	return action
}

func (s *Service) automodTimeout(msg *Message, v Violation, now time.Time) string {
	err := s.platform.Timeout(msg.GuildID, msg.AuthorID, now.Add(automodTimeout), "Automod: "+v.Reason)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return "Could not timeout (insufficient permissions)"
		}
		logger.WithError(err).WithField("guild", msg.GuildID).WithField("user", msg.AuthorID).Error("failed applying automod timeout")
		return "Could not timeout"
	}

	s.recordAction(model.ModActionRecord{
		GuildID:         msg.GuildID,
		Action:          model.ActionTimeout,
		TargetID:        msg.AuthorID,
		ModeratorID:     s.opts.BotUserID,
		Reason:          "AutoMod: " + v.Reason,
		DurationSeconds: int64(automodTimeout / time.Second),
		CreatedAt:       now,
	})
	return "Timed out for 5 minutes"
}

func (s *Service) automodMute(g *guildState, msg *Message, v Violation, now time.Time) string {
	roleID, err := s.ensureMuteRole(g)
	if err == nil {
		err = s.platform.AddRole(msg.GuildID, msg.AuthorID, roleID, "Automod: "+v.Reason)
	}
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return "Could not mute (insufficient permissions)"
		}
		logger.WithError(err).WithField("guild", msg.GuildID).WithField("user", msg.AuthorID).Error("failed applying automod mute")
		return "Could not mute"
	}

	s.scheduleAction(model.TempAction{
		GuildID:   msg.GuildID,
		UserID:    msg.AuthorID,
		Kind:      model.TempMute,
		RoleID:    roleID,
		ExpiresAt: now.Add(automodMuteTime),
	})
	s.recordAction(model.ModActionRecord{
		GuildID:         msg.GuildID,
		Action:          model.ActionMute,
		TargetID:        msg.AuthorID,
		ModeratorID:     s.opts.BotUserID,
		Reason:          "AutoMod: " + v.Reason,
		DurationSeconds: int64(automodMuteTime / time.Second),
		CreatedAt:       now,
	})
	return "Muted for 1 hour"
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
