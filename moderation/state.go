package moderation

import (
	"sync"

	"golang.org/x/time/rate"
)

// guildState is everything the moderation core keeps for one guild.
// mu guards ledger, reputation, joins, lockdown and raidFlagged and is never held across a
// platform call. roleMu serializes role creation and guards the memoized role ids.
type guildState struct {
	id string

	mu          sync.Mutex
	ledger      *Ledger
	reputation  *Reputation
	joins       joinLog
	lockdown    LockdownState
	raidFlagged map[string]struct{}

	roleMu           sync.Mutex
	muteRoleID       string
	quarantineRoleID string

	alerts *rate.Limiter
}

func newGuildState(id string, alertsPerMinute int) *guildState {
	if alertsPerMinute <= 0 {
		alertsPerMinute = 10
	}
	return &guildState{
		id:          id,
		ledger:      NewLedger(id),
		reputation:  NewReputation(),
		raidFlagged: make(map[string]struct{}),
		alerts:      rate.NewLimiter(rate.Limit(float64(alertsPerMinute)/60), alertsPerMinute),
	}
}

func (s *Service) guild(id string) *guildState {
	s.mu.RLock()
	g, ok := s.guilds[id]
	s.mu.RUnlock()
	if ok {
		return g
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok = s.guilds[id]; ok {
		return g
	}
	g = newGuildState(id, s.opts.AlertsPerMinute)
	s.guilds[id] = g
	return g
}

func (s *Service) allGuilds() []*guildState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*guildState, 0, len(s.guilds))
	for _, g := range s.guilds {
		out = append(out, g)
	}
	return out
}
