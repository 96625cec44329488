package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.SpindleDelaySeconds)
	assert.Nil(t, cfg.MinZLimit)
	assert.Equal(t, ".gcodeopt_state.json", cfg.StateFile)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcodeopt.yaml")
	content := `spindle_delay_seconds: 5
min_z_limit: -40.5
state_file: /tmp/tools.json
machine:
  z_offset: -2.5
logging:
  debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.SpindleDelaySeconds)
	require.NotNil(t, cfg.MinZLimit)
	assert.Equal(t, -40.5, *cfg.MinZLimit)
	assert.Equal(t, "/tmp/tools.json", cfg.StateFile)
	assert.Equal(t, -2.5, cfg.Machine.ZOffset)
	assert.True(t, cfg.Logging.Debug)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcodeopt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spindle_delay_seconds: [oops"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("delay and limit", func(t *testing.T) {
		t.Setenv("GCODEOPT_SPINDLE_DELAY", "7")
		t.Setenv("GCODEOPT_MIN_Z_LIMIT", "-12.5")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, 7, cfg.SpindleDelaySeconds)
		require.NotNil(t, cfg.MinZLimit)
		assert.Equal(t, -12.5, *cfg.MinZLimit)
	})

	t.Run("limit off disables a configured limit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gcodeopt.yaml")
		require.NoError(t, os.WriteFile(path, []byte("min_z_limit: -40.0\n"), 0644))
		t.Setenv("GCODEOPT_MIN_Z_LIMIT", "off")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Nil(t, cfg.MinZLimit)
	})

	t.Run("debug flag", func(t *testing.T) {
		t.Setenv("GCODEOPT_DEBUG", "true")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Logging.Debug)
	})

	t.Run("malformed numeric override is ignored", func(t *testing.T) {
		t.Setenv("GCODEOPT_SPINDLE_DELAY", "soon")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.SpindleDelaySeconds)
	})
}
