package moderation

import (
	"time"

	"discord-modbot/model"

	"github.com/google/uuid"
)

// RaidWindow is how far back joins count towards a raid.
const RaidWindow = 5 * time.Minute

const raidReason = "Potential raid detected"

var raidThresholds = map[model.RaidProtectionLevel]int{
	model.RaidLevelLow:     15,
	model.RaidLevelMedium:  10,
	model.RaidLevelHigh:    7,
	model.RaidLevelMaximum: 5,
}

// RaidThreshold is the number of joins inside RaidWindow that may be exceeded before a
// lockdown starts. Unknown levels fall back to medium.
func RaidThreshold(level model.RaidProtectionLevel) int {
	if t, ok := raidThresholds[level]; ok {
		return t
	}
	return raidThresholds[model.RaidLevelMedium]
}

type joinRecord struct {
	UserID   string
	UserName string
	At       time.Time
}

// joinLog keeps the joins of the last RaidWindow.
type joinLog struct {
	joins []joinRecord
}

// observe records j and returns the joins still inside the window, oldest first.
func (l *joinLog) observe(j joinRecord) []joinRecord {
	cutoff := j.At.Add(-RaidWindow)
	kept := l.joins[:0]
	for _, old := range l.joins {
		if old.At.After(cutoff) {
			kept = append(kept, old)
		}
	}
	l.joins = append(kept, j)
	return append([]joinRecord(nil), l.joins...)
}

// LockdownState is the guild-wide lockdown flag.
type LockdownState struct {
	Active     bool
	Reason     string
	IncidentID string
	StartedAt  time.Time
	EndsAt     time.Time

	// sendRevoked is set once this lockdown removed SEND_MESSAGES from @everyone; only
	// then does ending it grant the permission back.
	sendRevoked bool
}

// beginLockdown flips the lockdown flag. It must be called with g.mu held and reports
// false when a lockdown is already active.
func (g *guildState) beginLockdown(reason string, d time.Duration, now time.Time) (LockdownState, bool) {
	if g.lockdown.Active {
		return g.lockdown, false
	}
	g.lockdown = LockdownState{
		Active:     true,
		Reason:     reason,
		IncidentID: uuid.NewString(),
		StartedAt:  now,
		EndsAt:     now.Add(d),
	}
	g.raidFlagged = make(map[string]struct{})
	return g.lockdown, true
}

// raidJoin is what a member join did to the guild's raid state.
type raidJoin struct {
	started  bool
	lockdown LockdownState
	// flag lists members to mark as raid participants.
	flag []joinRecord
}

// observeJoin runs the raid detector for one join. Called with g.mu held.
func (g *guildState) observeJoin(j joinRecord, level model.RaidProtectionLevel, d time.Duration) raidJoin {
	joins := g.joins.observe(j)

	if g.lockdown.Active {
		var res raidJoin
		if _, done := g.raidFlagged[j.UserID]; !done {
			g.raidFlagged[j.UserID] = struct{}{}
			res.flag = append(res.flag, j)
		}
		return res
	}

	if len(joins) <= RaidThreshold(level) {
		return raidJoin{}
	}

	state, _ := g.beginLockdown(raidReason, d, j.At)
	res := raidJoin{started: true, lockdown: state}
	for _, r := range joins {
		if _, done := g.raidFlagged[r.UserID]; done {
			continue
		}
		g.raidFlagged[r.UserID] = struct{}{}
		res.flag = append(res.flag, r)
	}
	return res
}
