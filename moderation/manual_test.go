package moderation

import (
	"testing"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnCountsStoredWarnings(t *testing.T) {
	h := newHarness()

	n, err := h.svc.Warn(testGuild, "Test Guild", "u1", "mod", "be nice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = h.svc.Warn(testGuild, "Test Guild", "u1", "mod", "last chance")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, h.platform.dms, 2)
	assert.Equal(t, "Warning #2", h.platform.dms[1].Title())
	assert.Empty(t, h.platform.dms[1].ChannelName)
	assert.Equal(t, []string{model.ActionWarn, model.ActionWarn}, h.audit.actionKinds())
	require.Len(t, h.platform.actions, 2)
	assert.Equal(t, "u1", h.platform.actions[0].TargetID)

	assert.Zero(t, h.svc.Violations(testGuild, "u1"), "manual warnings do not feed the automod ladder")
}

func TestKick(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.svc.Kick(testGuild, "u1", "mod", "raid account"))
	assert.Equal(t, []string{"u1"}, h.platform.kicks)
	assert.Equal(t, []string{model.ActionKick}, h.audit.actionKinds())

	h.platform.kickErr = ErrPermissionDenied
	err := h.svc.Kick(testGuild, "u2", "mod", "x")
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.Len(t, h.audit.actionKinds(), 1, "failed kicks are not recorded")
}
