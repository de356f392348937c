package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReputationFlagPenalties(t *testing.T) {
	r := NewReputation()
	now := time.Now()

	s := r.Flag("u1", "New account", SeverityMedium, now)
	assert.Equal(t, 85, s.Score)
	assert.Equal(t, TrustTrusted, s.TrustLevel)

	s = r.Flag("u1", "Joined during suspected raid", SeverityHigh, now)
	assert.Equal(t, 55, s.Score)
	assert.Equal(t, TrustNeutral, s.TrustLevel)

	s = r.Flag("u1", "token", SeverityCritical, now)
	assert.Equal(t, 5, s.Score)
	assert.Equal(t, TrustHighRisk, s.TrustLevel)
	assert.Equal(t, 3, s.ViolationCount)

	s = r.Flag("u1", "again", SeverityCritical, now)
	assert.Equal(t, 0, s.Score)

	s = r.Flag("u2", "odd", Severity("weird"), now)
	assert.Equal(t, 90, s.Score)
}

func TestReputationHistoryCapped(t *testing.T) {
	r := NewReputation()
	now := time.Now()
	for i := 0; i < 60; i++ {
		r.Flag("u1", "x", SeverityLow, now.Add(time.Duration(i)*time.Second))
	}
	s, ok := r.Get("u1")
	require.True(t, ok)
	assert.Len(t, s.History, reputationHistory)
	assert.Equal(t, now.Add(59*time.Second), s.History[len(s.History)-1].Timestamp)
	assert.Equal(t, 60, s.ViolationCount)
}

func TestReputationSweepRecovers(t *testing.T) {
	r := NewReputation()
	now := time.Now()
	last := now.Add(-10 * 24 * time.Hour)

	st := r.state("u1")
	st.Score = 40
	st.TrustLevel = deriveTrust(40)
	st.LastViolationAt = last

	assert.Equal(t, 1, r.Sweep(now))
	s, _ := r.Get("u1")
	assert.Equal(t, 43, s.Score)
	assert.Equal(t, TrustSuspicious, s.TrustLevel)
}

func TestReputationSweepWithinGrace(t *testing.T) {
	r := NewReputation()
	now := time.Now()
	r.Flag("u1", "x", SeverityHigh, now.Add(-5*24*time.Hour))

	assert.Equal(t, 0, r.Sweep(now))
	s, _ := r.Get("u1")
	assert.Equal(t, 70, s.Score)
}

func TestReputationSweepCapsAt100(t *testing.T) {
	r := NewReputation()
	now := time.Now()
	r.Flag("u1", "x", SeverityLow, now.Add(-30*24*time.Hour))

	r.Sweep(now)
	s, _ := r.Get("u1")
	assert.Equal(t, 100, s.Score)
	assert.Equal(t, TrustTrusted, s.TrustLevel)
}

func TestReputationManualOverride(t *testing.T) {
	r := NewReputation()

	s, err := r.SetTrustLevel("u1", TrustSuspicious)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Score)
	assert.True(t, r.IsSuspicious("u1"))

	_, err = r.SetTrustLevel("u1", TrustUnknown)
	assert.ErrorIs(t, err, ErrInvalidTrustLevel)

	s, err = r.SetTrustLevel("u1", TrustTrusted)
	require.NoError(t, err)
	assert.Equal(t, 90, s.Score)
	assert.False(t, r.IsSuspicious("u1"))
}

func TestReputationSuspiciousByViolationCount(t *testing.T) {
	r := NewReputation()
	now := time.Now()
	assert.False(t, r.IsSuspicious("u1"))

	r.Flag("u1", "a", SeverityLow, now)
	r.Flag("u1", "b", SeverityLow, now)
	assert.False(t, r.IsSuspicious("u1"))
	r.Flag("u1", "c", SeverityLow, now)
	assert.True(t, r.IsSuspicious("u1"))
}

func TestReputationRecentFlags(t *testing.T) {
	r := NewReputation()
	now := time.Now()
	r.Flag("u1", "old", SeverityLow, now.Add(-10*time.Minute))
	r.Flag("u1", "new", SeverityLow, now.Add(-time.Minute))
	r.Flag("u1", "now", SeverityLow, now)

	assert.Equal(t, 2, r.RecentFlags("u1", now.Add(-5*time.Minute)))
	assert.Equal(t, 0, r.RecentFlags("u2", now))
}
