package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationConfigSet(t *testing.T) {
	cfg := DefaultModerationConfig()

	require.NoError(t, cfg.Set("link_filter", "true"))
	assert.True(t, cfg.LinkFilter)
	require.NoError(t, cfg.Set(" Max_Mentions ", "3"))
	assert.Equal(t, 3, cfg.MaxMentions)
	require.NoError(t, cfg.Set("raid_protection_level", "HIGH"))
	assert.Equal(t, RaidLevelHigh, cfg.RaidProtectionLevel)

	assert.Error(t, cfg.Set("link_filter", "maybe"))
	assert.Error(t, cfg.Set("max_emoji", "0"))
	assert.Error(t, cfg.Set("raid_protection_level", "extreme"))
	assert.Error(t, cfg.Set("nope", "1"))
	assert.Equal(t, 10, cfg.MaxEmoji, "a rejected value leaves the setting alone")
}

func TestModerationConfigKeysRoundTrip(t *testing.T) {
	cfg := DefaultModerationConfig()
	for _, key := range ModerationConfigKeys {
		v, ok := cfg.Get(key)
		require.True(t, ok, key)
		require.NoError(t, cfg.Set(key, v), key)
	}
	assert.Equal(t, DefaultModerationConfig(), cfg)

	_, ok := cfg.Get("nope")
	assert.False(t, ok)
}
