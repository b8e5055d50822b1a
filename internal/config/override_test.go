package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampartdev/rampart/internal/level"
)

func intp(v int) *int { return &v }

func TestLevelConfig_FullOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels = map[string]LevelOverride{
		"page": {
			MaxRetries:          intp(7),
			EscalationThreshold: "20s",
			FrequencyWindow:     "30s",
			FrequencyCount:      intp(5),
			NotifyStyle:         "warning",
			NotifyDuration:      "9s",
			FallbackTitle:       "Page down",
		},
	}

	eff := cfg.LevelConfig(level.Page)

	assert.Equal(t, 7, eff.MaxRetries)
	assert.Equal(t, 20*time.Second, eff.EscalationThreshold)
	assert.Equal(t, 30*time.Second, eff.FrequencyWindow)
	assert.Equal(t, 5, eff.FrequencyCount)
	assert.Equal(t, level.StyleWarning, eff.NotifyStyle)
	assert.Equal(t, 9*time.Second, eff.NotifyDuration)
	assert.Equal(t, "Page down", eff.Fallback.Title)

	// Actions are never configurable: the rung decides what recovery
	// operations exist.
	assert.Equal(t, level.DefaultConfig(level.Page).Fallback.Actions, eff.Fallback.Actions)
}

func TestLevelConfig_PartialOverrideKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels = map[string]LevelOverride{
		"widget": {MaxRetries: intp(0)},
	}

	eff := cfg.LevelConfig(level.Widget)
	def := level.DefaultConfig(level.Widget)

	// An explicit zero is honored: it disables the retry budget entirely.
	assert.Equal(t, 0, eff.MaxRetries)
	assert.Equal(t, def.EscalationThreshold, eff.EscalationThreshold)
	assert.Equal(t, def.NotifyStyle, eff.NotifyStyle)
	assert.Equal(t, def.Fallback.Title, eff.Fallback.Title)
}

func TestLevelConfig_NoOverrides(t *testing.T) {
	cfg := DefaultConfig()
	for _, l := range level.Ladder {
		assert.Equal(t, level.DefaultConfig(l), cfg.LevelConfig(l), "rung %s", l)
	}
}

func TestAdopt_Tristate(t *testing.T) {
	cfg := DefaultConfig()
	require.Nil(t, cfg.AdoptEscalations)
	assert.True(t, cfg.Adopt())

	off := false
	cfg.AdoptEscalations = &off
	assert.False(t, cfg.Adopt())

	on := true
	cfg.AdoptEscalations = &on
	assert.True(t, cfg.Adopt())
}
