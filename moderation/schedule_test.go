package moderation

import (
	"testing"
	"time"

	"discord-modbot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleOrdersByExpiry(t *testing.T) {
	s := NewSchedule()
	base := time.Unix(1_700_000_000, 0)

	s.Add(model.TempAction{GuildID: "g", UserID: "a", Kind: model.TempMute, ExpiresAt: base.Add(3 * time.Minute)})
	s.Add(model.TempAction{GuildID: "g", UserID: "b", Kind: model.TempMute, ExpiresAt: base.Add(1 * time.Minute)})
	s.Add(model.TempAction{GuildID: "g", UserID: "c", Kind: model.TempBan, ExpiresAt: base.Add(2 * time.Minute)})

	next, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "b", next.UserID)

	due := s.PopDue(base.Add(2 * time.Minute))
	require.Len(t, due, 2)
	assert.Equal(t, "b", due[0].UserID)
	assert.Equal(t, "c", due[1].UserID)
	assert.Equal(t, 1, s.Len())

	assert.Empty(t, s.PopDue(base))
}

func TestScheduleOneEntryPerKey(t *testing.T) {
	s := NewSchedule()
	base := time.Unix(1_700_000_000, 0)

	s.Add(model.TempAction{GuildID: "g", UserID: "u", Kind: model.TempMute, ExpiresAt: base.Add(time.Hour)})
	s.Add(model.TempAction{GuildID: "g", UserID: "u", Kind: model.TempMute, ExpiresAt: base.Add(2 * time.Hour)})
	s.Add(model.TempAction{GuildID: "g", UserID: "u", Kind: model.TempBan, ExpiresAt: base.Add(time.Hour)})

	assert.Equal(t, 2, s.Len())
	a, ok := s.Get("g", "u", model.TempMute)
	require.True(t, ok)
	assert.Equal(t, base.Add(2*time.Hour), a.ExpiresAt)

	assert.True(t, s.Cancel("g", "u", model.TempMute))
	assert.False(t, s.Cancel("g", "u", model.TempMute))
	_, ok = s.Get("g", "u", model.TempMute)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}
