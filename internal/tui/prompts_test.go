package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptsDisabled(t *testing.T) {
	t.Setenv(EnvNoInteractive, "1")

	_, err := PromptConfirm("Discard all local changes?", false)
	require.ErrorIs(t, err, ErrInteractiveDisabled)

	_, err = PromptSecret("GitHub token")
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	assert.Contains(t, err.Error(), EnvNoInteractive)
}

func TestIsColorTerminalHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsColorTerminal(nil))
}
