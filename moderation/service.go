package moderation

import (
	"encoding/json"
	"sync"
	"time"

	"discord-modbot/model"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("p", "moderation")

// Options tunes a Service. Zero values pick the defaults.
type Options struct {
	// BotUserID is recorded as the moderator of automatic actions and never moderated.
	BotUserID string
	// AllowedDomains extends DefaultAllowedDomains for the link filter.
	AllowedDomains       []string
	RaidLockdownDuration time.Duration
	AlertsPerMinute      int
	Now                  func() time.Time
}

// Service is the moderation core. One Service is shared by every gateway handler; its
// state is partitioned per guild.
type Service struct {
	platform Platform
	settings SettingsProvider
	audit    AuditSink
	rules    *RuleSet
	opts     Options

	mu     sync.RWMutex
	guilds map[string]*guildState

	schedMu  sync.Mutex
	schedule *Schedule
}

func NewService(platform Platform, settings SettingsProvider, audit AuditSink, opts Options) *Service {
	if opts.RaidLockdownDuration <= 0 {
		opts.RaidLockdownDuration = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		platform: platform,
		settings: settings,
		audit:    audit,
		rules:    NewRuleSet(opts.AllowedDomains, NewInviteResolver(platform)),
		opts:     opts,
		guilds:   make(map[string]*guildState),
		schedule: NewSchedule(),
	}
}

func (s *Service) now() time.Time { return s.opts.Now() }

func (s *Service) config(guildID string) model.ModerationConfig {
	cfg, err := s.settings.ModerationConfig(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Warn("failed loading moderation config, using defaults")
		return model.DefaultModerationConfig()
	}
	return cfg
}

// HandleMessage runs automod and the threat scanner on a new message and returns what was
// enforced.
func (s *Service) HandleMessage(msg *Message) []Enforcement {
	return s.handleContent(msg, true)
}

// HandleMessageEdit re-checks an edited message. The spam check is skipped so edits do not
// count towards message flooding.
func (s *Service) HandleMessageEdit(before string, after *Message) []Enforcement {
	if before == after.Content {
		return nil
	}
	return s.handleContent(after, false)
}

func (s *Service) skip(msg *Message) bool {
	return msg.GuildID == "" || msg.AuthorIsBot || msg.AuthorIsAdmin || msg.AuthorID == s.opts.BotUserID
}

func (s *Service) handleContent(msg *Message, observe bool) []Enforcement {
	if s.skip(msg) {
		return nil
	}

	cfg := s.config(msg.GuildID)
	g := s.guild(msg.GuildID)

	var history []MessageSnapshot
	if observe && cfg.SpamDetection {
		g.mu.Lock()
		history = g.ledger.Observe(msg.AuthorID, MessageSnapshot{
			AuthorID:  msg.AuthorID,
			ChannelID: msg.ChannelID,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
		g.mu.Unlock()
	}

	target := &messageTarget{msg: msg}
	violations := s.rules.Evaluate(msg, cfg, history)
	if len(violations) > 0 && isChainCategory(violations[0].Category) {
		s.ensureDeleted(target)
		violations[0].Deleted = target.deleted
	}

	out := make([]Enforcement, 0, len(violations))
	for _, v := range violations {
		out = append(out, s.enforce(g, target, v))
	}

	s.scanThreats(g, target, cfg)
	return out
}

func isChainCategory(c Category) bool {
	return c != CategoryMentions && c != CategoryEmoji
}

// Violations returns the member's automod violation count.
func (s *Service) Violations(guildID, userID string) int {
	g := s.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Peek(userID)
}

// ClearViolations resets the member's count and returns the previous value.
func (s *Service) ClearViolations(guildID, userID string) int {
	g := s.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Clear(userID)
}

// Stats is a point-in-time summary for the bot info command.
type Stats struct {
	Guilds             int
	ActiveLockdowns    int
	PendingTempActions int
	// NextExpiry is when the earliest pending temp action is due, zero if none is.
	NextExpiry time.Time
}

func (s *Service) Stats() Stats {
	var st Stats
	for _, g := range s.allGuilds() {
		st.Guilds++
		g.mu.Lock()
		if g.lockdown.Active {
			st.ActiveLockdowns++
		}
		g.mu.Unlock()
	}
	s.schedMu.Lock()
	st.PendingTempActions = s.schedule.Len()
	if next, ok := s.schedule.Next(); ok {
		st.NextExpiry = next.ExpiresAt
	}
	s.schedMu.Unlock()
	return st
}

func (s *Service) scheduleAction(a model.TempAction) {
	s.schedMu.Lock()
	s.schedule.Add(a)
	s.schedMu.Unlock()
}

func (s *Service) cancelAction(guildID, userID string, kind model.TempActionKind) bool {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	return s.schedule.Cancel(guildID, userID, kind)
}

// PendingAction returns the scheduled expiry of a temp action, if any.
func (s *Service) PendingAction(guildID, userID string, kind model.TempActionKind) (model.TempAction, bool) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	return s.schedule.Get(guildID, userID, kind)
}

func (s *Service) recordWarning(rec model.WarningRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordWarning(rec); err != nil {
		logger.WithError(err).WithField("guild", rec.GuildID).Error("failed recording warning")
	}
}

func (s *Service) recordAction(rec model.ModActionRecord) {
	if s.audit == nil {
		return
	}
	if rec.Extra == "" {
		rec.Extra = "{}"
	}
	if err := s.audit.RecordAction(rec); err != nil {
		logger.WithError(err).WithField("guild", rec.GuildID).WithField("action", rec.Action).Error("failed recording moderation action")
	}
}

func extraJSON(fields map[string]string) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// sendActionLog posts a guild-level security action to the moderation log channel.
func (s *Service) sendActionLog(entry ActionLog) {
	routing := s.routing(entry.GuildID)
	if routing.ModLogChannelID == "" {
		return
	}
	if err := s.platform.SendActionLog(routing.ModLogChannelID, entry); err != nil {
		logger.WithError(err).WithField("guild", entry.GuildID).WithField("action", entry.Action).Warn("failed sending action log")
	}
}
