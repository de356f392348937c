package moderation

import (
	"fmt"
	"testing"
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loud(i int) string {
	return fmt.Sprintf("LOUD MESSAGE NUMBER %d", i)
}

func TestRepeatedCharactersEndToEnd(t *testing.T) {
	h := newHarness()
	h.config(func(c *model.ModerationConfig) { c.CapsFilter = false })

	msg := h.message("u1", "FFFFFFFFFF")
	got := h.svc.HandleMessage(msg)

	require.Len(t, got, 1)
	assert.Equal(t, CategoryRepeated, got[0].Violation.Category)
	assert.True(t, got[0].Violation.Deleted)
	assert.Equal(t, 1, got[0].Decision.Count)
	assert.Equal(t, []string{msg.ID}, h.platform.deleted)

	require.Len(t, h.platform.dms, 1)
	assert.Contains(t, h.platform.dms[0].Title(), "Warning #1")
	assert.Equal(t, "Repeated characters", h.platform.dms[0].Reason)
	assert.Equal(t, 1, h.svc.Violations(testGuild, "u1"))
}

func TestPunishmentLadder(t *testing.T) {
	h := newHarness()

	var results []Enforcement
	for i := 1; i <= 5; i++ {
		h.clock.Advance(10 * time.Second)
		got := h.svc.HandleMessage(h.message("u1", loud(i)))
		require.Len(t, got, 1, "message %d", i)
		results = append(results, got[0])
	}

	assert.Equal(t, PenaltyWarn, results[0].Decision.Penalty)
	assert.Equal(t, PenaltyWarn, results[1].Decision.Penalty)
	assert.Equal(t, PenaltyTimeout, results[2].Decision.Penalty)
	assert.Equal(t, PenaltyTimeout, results[3].Decision.Penalty)
	assert.Equal(t, PenaltyMute, results[4].Decision.Penalty)

	require.Len(t, h.platform.dms, 2)
	assert.False(t, h.platform.dms[0].NextMayMute)
	assert.True(t, h.platform.dms[1].NextMayMute)
	assert.Len(t, h.audit.warnings, 2)
	assert.Equal(t, testBot, h.audit.warnings[0].ModeratorID)

	assert.Equal(t, []string{"u1", "u1"}, h.platform.timeouts)
	assert.Equal(t, "Timed out for 5 minutes", results[2].ActionTaken)
	assert.Equal(t, "Muted for 1 hour", results[4].ActionTaken)

	// Mute role was created, locked down on text/voice/stage channels and saved back.
	routing, _ := h.settings.GuildRouting(testGuild)
	require.NotEmpty(t, routing.MuteRoleID)
	assert.Len(t, h.platform.overwrites, 3)
	assert.Equal(t, []string{"u1:" + routing.MuteRoleID}, h.platform.added)

	pending, ok := h.svc.PendingAction(testGuild, "u1", model.TempMute)
	require.True(t, ok)
	assert.Equal(t, h.clock.Now().Add(time.Hour), pending.ExpiresAt)

	assert.Equal(t, []string{model.ActionTimeout, model.ActionTimeout, model.ActionMute}, h.audit.actionKinds())
	assert.Len(t, h.platform.logs, 5)
	assert.Equal(t, 5, h.platform.logs[4].Count)
}

func TestMuteRoleReusedWhenConfigured(t *testing.T) {
	h := newHarness()
	h.platform.roles[testGuild] = append(h.platform.roles[testGuild], Role{ID: "muted-1", Name: "Muted"})
	h.settings.SetMuteRole(testGuild, "muted-1")

	for i := 1; i <= 5; i++ {
		h.clock.Advance(10 * time.Second)
		h.svc.HandleMessage(h.message("u1", loud(i)))
	}
	assert.Equal(t, []string{"u1:muted-1"}, h.platform.added)
	assert.Empty(t, h.platform.overwrites)
}

func TestTimeoutPermissionDenied(t *testing.T) {
	h := newHarness()
	h.platform.timeoutErr = errors.WithMessage(ErrPermissionDenied, "HTTP 403")

	var last Enforcement
	for i := 1; i <= 3; i++ {
		h.clock.Advance(10 * time.Second)
		last = h.svc.HandleMessage(h.message("u1", loud(i)))[0]
	}
	assert.Equal(t, "Could not timeout (insufficient permissions)", last.ActionTaken)
	assert.Equal(t, "Could not timeout (insufficient permissions)", h.platform.logs[2].ActionTaken)
}

func TestMutePermissionDenied(t *testing.T) {
	h := newHarness()
	h.platform.addRoleErr = ErrPermissionDenied

	var last Enforcement
	for i := 1; i <= 5; i++ {
		h.clock.Advance(10 * time.Second)
		last = h.svc.HandleMessage(h.message("u1", loud(i)))[0]
	}
	assert.Equal(t, "Could not mute (insufficient permissions)", last.ActionTaken)
	_, ok := h.svc.PendingAction(testGuild, "u1", model.TempMute)
	assert.False(t, ok)
}

func TestClearViolationsResetsLadder(t *testing.T) {
	h := newHarness()
	for i := 1; i <= 3; i++ {
		h.clock.Advance(10 * time.Second)
		h.svc.HandleMessage(h.message("u1", loud(i)))
	}
	assert.Equal(t, 3, h.svc.ClearViolations(testGuild, "u1"))
	assert.Equal(t, 0, h.svc.Violations(testGuild, "u1"))

	h.clock.Advance(10 * time.Second)
	got := h.svc.HandleMessage(h.message("u1", loud(4)))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Decision.Count)
	assert.Equal(t, PenaltyWarn, got[0].Decision.Penalty)
}

func TestFloodViolationsCountSeparately(t *testing.T) {
	h := newHarness()
	msg := h.message("u1", "THIS IS VERY LOUD TEXT")
	msg.UserMentions = 6

	got := h.svc.HandleMessage(msg)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Decision.Count)
	assert.Equal(t, 2, got[1].Decision.Count)
	assert.Len(t, h.platform.deleted, 1, "a message is deleted once")
}

func TestFloodAloneStillDeletedByLadder(t *testing.T) {
	h := newHarness()
	msg := h.message("u1", "hi all")
	msg.RoleMentions = 9

	got := h.svc.HandleMessage(msg)
	require.Len(t, got, 1)
	assert.Equal(t, CategoryMentions, got[0].Violation.Category)
	assert.True(t, got[0].Violation.Deleted)
}

func TestSkippedAuthors(t *testing.T) {
	h := newHarness()

	admin := h.message("u1", "FFFFFFFFFF")
	admin.AuthorIsAdmin = true
	assert.Empty(t, h.svc.HandleMessage(admin))

	bot := h.message("u2", "FFFFFFFFFF")
	bot.AuthorIsBot = true
	assert.Empty(t, h.svc.HandleMessage(bot))

	self := h.message(testBot, "FFFFFFFFFF")
	assert.Empty(t, h.svc.HandleMessage(self))

	assert.Empty(t, h.platform.deleted)
}

func TestMessageEdit(t *testing.T) {
	h := newHarness()

	h.svc.HandleMessage(h.message("u1", "same text"))
	h.svc.HandleMessage(h.message("u1", "same text"))

	edited := h.message("u1", "same text")
	assert.Empty(t, h.svc.HandleMessageEdit("something else", edited), "edits skip the spam check")
	assert.Empty(t, h.svc.HandleMessageEdit("FFFFFFFFFF", h.message("u1", "FFFFFFFFFF")), "unchanged content is ignored")

	got := h.svc.HandleMessageEdit("quiet", h.message("u1", "NOW IT IS LOUD"))
	require.Len(t, got, 1)
	assert.Equal(t, CategoryCaps, got[0].Violation.Category)
}

func TestSpamThroughService(t *testing.T) {
	h := newHarness()
	var got []Enforcement
	for i := 0; i < 3; i++ {
		h.clock.Advance(30 * time.Second)
		got = h.svc.HandleMessage(h.message("u1", "free stuff here"))
	}
	require.Len(t, got, 1)
	assert.Equal(t, "Spam: Identical messages", got[0].Violation.Reason)
}

func TestMessageDeleteNotFoundSwallowed(t *testing.T) {
	h := newHarness()
	h.platform.deleteErr = ErrNotFound
	h.config(func(c *model.ModerationConfig) { c.CapsFilter = false })

	got := h.svc.HandleMessage(h.message("u1", "FFFFFFFFFF"))
	require.Len(t, got, 1)
	assert.Len(t, h.platform.dms, 1)
}

func TestDecide(t *testing.T) {
	assert.Equal(t, Decision{Count: 1, Penalty: PenaltyWarn}, Decide(1))
	assert.Equal(t, Decision{Count: 2, Penalty: PenaltyWarn, NextMayMute: true}, Decide(2))
	assert.Equal(t, PenaltyTimeout, Decide(3).Penalty)
	assert.Equal(t, PenaltyTimeout, Decide(4).Penalty)
	assert.Equal(t, PenaltyMute, Decide(5).Penalty)
	assert.Equal(t, PenaltyMute, Decide(12).Penalty)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
}
