package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCommandsUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range GenerateCommands() {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true
		assert.NotEmpty(t, cmd.Description)
		assert.LessOrEqual(t, len(cmd.Description), 100)
	}
	assert.True(t, seen["tempmute"])
	assert.True(t, seen["lockdown"])
	assert.True(t, seen["logchannel"])
	assert.True(t, seen["kick"])
}

func TestSubcommandOptionsWithinLimits(t *testing.T) {
	for _, cmd := range GenerateCommands() {
		for _, opt := range cmd.Options {
			assert.LessOrEqual(t, len(opt.Choices), 25, "%s/%s", cmd.Name, opt.Name)
			for _, sub := range opt.Options {
				assert.LessOrEqual(t, len(sub.Choices), 25, "%s/%s/%s", cmd.Name, opt.Name, sub.Name)
			}
		}
	}
}
