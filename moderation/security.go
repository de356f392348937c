package moderation

import (
	"fmt"
	"strings"
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
)

const (
	frequencyWindow = 5 * time.Minute
	hoistChars      = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// flag lowers a member's reputation and sends a security alert.
func (s *Service) flag(g *guildState, userID, userName, reason string, sev Severity) ReputationState {
	now := s.now()

	g.mu.Lock()
	st := g.reputation.Flag(userID, reason, sev, now)
	g.mu.Unlock()

	securityFlagsCounter.WithLabelValues(string(sev)).Inc()
	logger.WithField("guild", g.id).WithField("user", userID).WithField("severity", sev).Info("member flagged: " + reason)

	if !g.alerts.Allow() {
		alertsDropped.Inc()
		return st
	}
	routing := s.routing(g.id)
	if routing.ModLogChannelID == "" {
		return st
	}
	alert := SecurityAlert{
		GuildID:        g.id,
		UserID:         userID,
		UserName:       userName,
		Reason:         reason,
		Severity:       sev,
		Score:          st.Score,
		TrustLevel:     st.TrustLevel,
		ViolationCount: st.ViolationCount,
		Timestamp:      now,
	}
	if err := s.platform.SendSecurityAlert(routing.ModLogChannelID, alert); err != nil {
		logger.WithError(err).WithField("guild", g.id).Warn("failed sending security alert")
	}
	return st
}

// scanThreats runs the security scanner on a message that passed (or already failed) automod.
func (s *Service) scanThreats(g *guildState, t *messageTarget, cfg model.ModerationConfig) {
	msg := t.msg
	rep := ScanThreats(msg.Content, msg.Attachments)

	if len(rep.Threats) > 0 {
		s.flag(g, msg.AuthorID, msg.AuthorName, "Message contains threats: "+strings.Join(rep.Threats, ", "), rep.Severity)
		if rep.Critical() {
			s.ensureDeleted(t)
			if err := s.Quarantine(msg.GuildID, msg.AuthorID, "Critical security threat detected"); err != nil {
				logger.WithError(err).WithField("guild", msg.GuildID).WithField("user", msg.AuthorID).Warn("failed quarantining member")
			}
		}
	}
	for _, f := range rep.Files {
		s.flag(g, msg.AuthorID, msg.AuthorName, "Suspicious file attachment: "+f, SeverityMedium)
	}
	s.checkBlockedDomains(g, t)

	s.checkFrequency(g, msg.AuthorID, msg.AuthorName, cfg.SuspiciousActivityThreshold)
}

// checkBlockedDomains flags and deletes a message linking to a domain the guild blocked.
// Subdomains of a blocked domain are blocked too.
func (s *Service) checkBlockedDomains(g *guildState, t *messageTarget) {
	blocked, err := s.settings.BlockedDomains(g.id)
	if err != nil {
		logger.WithError(err).WithField("guild", g.id).Warn("failed loading blocked domains")
		return
	}
	if len(blocked) == 0 {
		return
	}
	for _, raw := range urlRegex.FindAllString(t.msg.Content, -1) {
		domain, ok := linkDomain(raw)
		if !ok || !domainBlocked(domain, blocked) {
			continue
		}
		s.flag(g, t.msg.AuthorID, t.msg.AuthorName, "Posted blocked domain: "+domain, SeverityHigh)
		s.ensureDeleted(t)
		return
	}
}

func domainBlocked(domain string, blocked []string) bool {
	for _, b := range blocked {
		if domain == b || strings.HasSuffix(domain, "."+b) {
			return true
		}
	}
	return false
}

// checkFrequency flags members that collect many flags in a short time.
func (s *Service) checkFrequency(g *guildState, userID, userName string, threshold int) {
	if threshold <= 0 {
		return
	}
	now := s.now()

	g.mu.Lock()
	recent := g.reputation.RecentFlags(userID, now.Add(-frequencyWindow))
	st, ok := g.reputation.Get(userID)
	g.mu.Unlock()

	if !ok || recent < threshold {
		return
	}
	if n := len(st.History); n > 0 && st.History[n-1].Reason == frequencyReason {
		return
	}
	s.flag(g, userID, userName, frequencyReason, SeverityMedium)
}

// HandleMemberJoin runs the raid detector and the new-member security checks.
func (s *Service) HandleMemberJoin(m *Member) {
	if m.GuildID == "" || m.UserID == s.opts.BotUserID {
		return
	}
	cfg := s.config(m.GuildID)
	g := s.guild(m.GuildID)
	now := s.now()

	if cfg.RaidProtection {
		s.observeRaid(g, m, cfg, now)
	}
	if m.IsBot {
		return
	}

	if cfg.AutoDehoist {
		s.dehoist(m)
	}

	if !m.CreatedAt.IsZero() {
		days := int(now.Sub(m.CreatedAt) / (24 * time.Hour))
		if days < cfg.AccountAgeRequirementDays {
			s.flag(g, m.UserID, m.Username, fmt.Sprintf("New account (created %d days ago)", days), SeverityMedium)
		}
	}
	if suspiciousUsername(m.Username) {
		s.flag(g, m.UserID, m.Username, "Suspicious username pattern: "+m.Username, SeverityMedium)
	}
	if !m.HasAvatar {
		s.flag(g, m.UserID, m.Username, "No profile picture (default avatar)", SeverityLow)
	}

	if !cfg.AutoQuarantine {
		return
	}
	g.mu.Lock()
	suspicious := g.reputation.IsSuspicious(m.UserID)
	g.mu.Unlock()
	if suspicious {
		if err := s.Quarantine(m.GuildID, m.UserID, "Automatic security quarantine"); err != nil {
			logger.WithError(err).WithField("guild", m.GuildID).WithField("user", m.UserID).Warn("failed auto-quarantining member")
		}
	}
}

func (s *Service) observeRaid(g *guildState, m *Member, cfg model.ModerationConfig, now time.Time) {
	g.mu.Lock()
	res := g.observeJoin(joinRecord{UserID: m.UserID, UserName: m.Username, At: now}, cfg.RaidProtectionLevel, s.opts.RaidLockdownDuration)
	g.mu.Unlock()

	if res.started {
		lockdownsCounter.WithLabelValues("raid").Inc()
		s.lockdownStarted(g, res.lockdown)
	}
	for _, j := range res.flag {
		s.flag(g, j.UserID, j.UserName, "Joined during suspected raid", SeverityHigh)
	}
}

// HandleMemberUpdate re-applies dehoisting after a display name change.
func (s *Service) HandleMemberUpdate(before string, m *Member) {
	if m.GuildID == "" || m.IsBot || before == m.DisplayName {
		return
	}
	if s.config(m.GuildID).AutoDehoist {
		s.dehoist(m)
	}
}

// DehoistName strips leading sort-hoisting characters. ok is false when name is not hoisted.
func DehoistName(displayName, username string) (string, bool) {
	if displayName == "" || !strings.ContainsRune(hoistChars, []rune(displayName)[0]) {
		return "", false
	}
	name := strings.TrimLeft(displayName, hoistChars)
	if name == "" {
		name = "Dehoisted " + username
	}
	return name, true
}

func (s *Service) dehoist(m *Member) {
	nick, ok := DehoistName(m.DisplayName, m.Username)
	if !ok {
		return
	}
	if err := ignoreNotFound(s.platform.SetNickname(m.GuildID, m.UserID, nick, "Auto-dehoist")); err != nil && !errors.Is(err, ErrPermissionDenied) {
		logger.WithError(err).WithField("guild", m.GuildID).WithField("user", m.UserID).Warn("failed dehoisting member")
	}
}

// Quarantine gives the member the quarantine role, creating the role when needed.
func (s *Service) Quarantine(guildID, userID, reason string) error {
	g := s.guild(guildID)
	roleID, err := s.ensureQuarantineRole(g)
	if err != nil {
		return err
	}
	if err := s.platform.AddRole(guildID, userID, roleID, reason); err != nil {
		return errors.WithMessage(err, "add quarantine role")
	}

	quarantinesCounter.Inc()
	now := s.now()
	s.sendActionLog(ActionLog{GuildID: guildID, Action: "quarantine", TargetID: userID, Reason: reason, Timestamp: now})
	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionQuarantine,
		TargetID:    userID,
		ModeratorID: s.opts.BotUserID,
		Reason:      reason,
		CreatedAt:   now,
	})
	return nil
}

// Unquarantine removes the quarantine role. It returns ErrNotFound when the guild has no
// quarantine role.
func (s *Service) Unquarantine(guildID, userID, moderatorID, reason string) error {
	g := s.guild(guildID)

	g.roleMu.Lock()
	roleID := g.quarantineRoleID
	g.roleMu.Unlock()
	if roleID == "" {
		roles, err := s.platform.GuildRoles(guildID)
		if err != nil {
			return errors.WithMessage(err, "list roles")
		}
		for _, r := range roles {
			if r.Name == quarantineRoleName {
				roleID = r.ID
				break
			}
		}
	}
	if roleID == "" {
		return errors.WithMessage(ErrNotFound, "quarantine role")
	}

	if err := s.platform.RemoveRole(guildID, userID, roleID, reason); err != nil {
		return errors.WithMessage(err, "remove quarantine role")
	}

	now := s.now()
	s.sendActionLog(ActionLog{GuildID: guildID, Action: "unquarantine", TargetID: userID, Reason: reason, Timestamp: now})
	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionRelease,
		TargetID:    userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   now,
	})
	return nil
}

// SetTrustLevel is the moderator override of a member's trust level.
func (s *Service) SetTrustLevel(guildID, userID, moderatorID, level string) (ReputationState, error) {
	lvl, err := ParseTrustLevel(level)
	if err != nil {
		return ReputationState{}, err
	}

	g := s.guild(guildID)
	g.mu.Lock()
	st, err := g.reputation.SetTrustLevel(userID, lvl)
	g.mu.Unlock()
	if err != nil {
		return ReputationState{}, err
	}

	now := s.now()
	reason := "Trust level set to " + string(lvl)
	s.sendActionLog(ActionLog{GuildID: guildID, Action: "trust_level", TargetID: userID, Reason: reason, Timestamp: now})
	s.recordAction(model.ModActionRecord{
		GuildID:     guildID,
		Action:      model.ActionTrustLevel,
		TargetID:    userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   now,
		Extra:       extraJSON(map[string]string{"level": string(lvl)}),
	})
	return st, nil
}

// Reputation returns the member's reputation in the guild. Unseen members report the
// initial state.
func (s *Service) Reputation(guildID, userID string) ReputationState {
	g := s.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	if st, ok := g.reputation.Get(userID); ok {
		return st
	}
	return ReputationState{UserID: userID, Score: initialScore, TrustLevel: TrustUnknown}
}

// SweepReputation applies score recovery in every guild and returns the number of members
// whose score changed.
func (s *Service) SweepReputation(now time.Time) int {
	changed := 0
	for _, g := range s.allGuilds() {
		g.mu.Lock()
		changed += g.reputation.Sweep(now)
		g.mu.Unlock()
	}
	return changed
}
