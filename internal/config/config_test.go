package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Rules.MinHandSize)
	assert.Equal(t, 3, cfg.Rules.ReserveSize)
	assert.Equal(t, 0, cfg.Rules.CopyFallbackStrength)
	assert.Equal(t, Anchor{X: 600, Y: 350}, cfg.Layout.Discard)
	assert.Equal(t, 144.0, cfg.Layout.CardWidth)
	assert.Equal(t, Shake{Frames: 40, Intensity: 25}, cfg.Shake.Screen)
	assert.Equal(t, Shake{Frames: 7, Intensity: 12}, cfg.Shake.Hand)
	assert.Equal(t, 60, cfg.Server.FPS)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Rules.MinHandSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palace.yaml")
	content := []byte(`
logging:
  level: debug
  format: json
rules:
  min_hand_size: 5
timing:
  play_ticks: 3
layout:
  hand:
    x: 500
seed: 99
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Rules.MinHandSize)
	assert.Equal(t, 3, cfg.Timing.PlayTicks)
	assert.Equal(t, 500.0, cfg.Layout.Hand.X)
	assert.Equal(t, 725.0, cfg.Layout.Hand.Y)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 20, cfg.Timing.DealTicks)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PALACE_SERVER_ADDRESS", "0.0.0.0:9000")
	t.Setenv("PALACE_RULES_MIN_HAND_SIZE", "6")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address)
	assert.Equal(t, 6, cfg.Rules.MinHandSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timing:\n  burn_ticks: -1\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("rules: [unclosed\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.FPS = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Rules.ReserveSize = -1
	assert.Error(t, cfg.Validate())
}
