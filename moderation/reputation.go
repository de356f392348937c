package moderation

import "time"

const (
	initialScore      = 100
	maxScore          = 100
	reputationHistory = 50

	// recoveryGraceDays without a flag before a score starts recovering.
	recoveryGraceDays = 7
	maxDailyRecovery  = 5
)

var severityPenalty = map[Severity]int{
	SeverityLow:      5,
	SeverityMedium:   15,
	SeverityHigh:     30,
	SeverityCritical: 50,
}

const unknownSeverityPenalty = 10

// Manual overrides pin the score to the level's baseline.
var trustBaseline = map[TrustLevel]int{
	TrustTrusted:    90,
	TrustNeutral:    60,
	TrustSuspicious: 30,
	TrustHighRisk:   10,
}

// ReputationEvent is one entry of a member's flag history.
type ReputationEvent struct {
	Reason    string
	Severity  Severity
	Timestamp time.Time
}

type ReputationState struct {
	UserID          string
	Score           int
	TrustLevel      TrustLevel
	History         []ReputationEvent
	ViolationCount  int
	LastViolationAt time.Time
}

// Suspicious reports whether the member should be considered for quarantine.
func (s ReputationState) Suspicious() bool {
	return s.Score < 30 ||
		s.TrustLevel == TrustSuspicious ||
		s.TrustLevel == TrustHighRisk ||
		s.ViolationCount >= 3
}

func (s *ReputationState) clone() ReputationState {
	c := *s
	c.History = append([]ReputationEvent(nil), s.History...)
	return c
}

func deriveTrust(score int) TrustLevel {
	switch {
	case score >= 80:
		return TrustTrusted
	case score >= 50:
		return TrustNeutral
	case score >= 20:
		return TrustSuspicious
	}
	return TrustHighRisk
}

// Reputation tracks the security scores of one guild's members. Like Ledger it relies on
// the guild state lock.
type Reputation struct {
	users map[string]*ReputationState
}

func NewReputation() *Reputation {
	return &Reputation{users: make(map[string]*ReputationState)}
}

func (r *Reputation) state(userID string) *ReputationState {
	s, ok := r.users[userID]
	if !ok {
		s = &ReputationState{UserID: userID, Score: initialScore, TrustLevel: TrustUnknown}
		r.users[userID] = s
	}
	return s
}

func (r *Reputation) Get(userID string) (ReputationState, bool) {
	s, ok := r.users[userID]
	if !ok {
		return ReputationState{}, false
	}
	return s.clone(), true
}

// Flag lowers the member's score by the severity penalty and returns the updated state.
func (r *Reputation) Flag(userID, reason string, sev Severity, now time.Time) ReputationState {
	s := r.state(userID)

	s.History = append(s.History, ReputationEvent{Reason: reason, Severity: sev, Timestamp: now})
	if len(s.History) > reputationHistory {
		s.History = append([]ReputationEvent(nil), s.History[len(s.History)-reputationHistory:]...)
	}
	s.ViolationCount++
	s.LastViolationAt = now

	penalty, ok := severityPenalty[sev]
	if !ok {
		penalty = unknownSeverityPenalty
	}
	s.Score -= penalty
	if s.Score < 0 {
		s.Score = 0
	}
	s.TrustLevel = deriveTrust(s.Score)
	return s.clone()
}

// SetTrustLevel is a moderator override. It pins the score to the level baseline.
func (r *Reputation) SetTrustLevel(userID string, level TrustLevel) (ReputationState, error) {
	baseline, ok := trustBaseline[level]
	if !ok {
		return ReputationState{}, ErrInvalidTrustLevel
	}
	s := r.state(userID)
	s.Score = baseline
	s.TrustLevel = level
	return s.clone(), nil
}

// Sweep lets scores of members with no flag for more than a week recover, and returns how
// many members changed.
func (r *Reputation) Sweep(now time.Time) int {
	changed := 0
	for _, s := range r.users {
		if s.LastViolationAt.IsZero() || s.Score >= maxScore {
			continue
		}
		days := int(now.Sub(s.LastViolationAt) / (24 * time.Hour))
		if days <= recoveryGraceDays {
			continue
		}
		s.Score += min(maxDailyRecovery, days-recoveryGraceDays)
		if s.Score > maxScore {
			s.Score = maxScore
		}
		s.TrustLevel = deriveTrust(s.Score)
		changed++
	}
	return changed
}

// RecentFlags counts flags at or after since.
func (r *Reputation) RecentFlags(userID string, since time.Time) int {
	s, ok := r.users[userID]
	if !ok {
		return 0
	}
	n := 0
	for _, e := range s.History {
		if !e.Timestamp.Before(since) {
			n++
		}
	}
	return n
}

// IsSuspicious is false for members the guild has never flagged.
func (r *Reputation) IsSuspicious(userID string) bool {
	s, ok := r.users[userID]
	return ok && s.Suspicious()
}
