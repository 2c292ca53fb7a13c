package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	base := t.TempDir()

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	data, err := os.ReadFile(FilePath(base))
	require.NoError(t, err)
	assert.Equal(t, configTemplate, string(data))

	// The template itself must parse back to the defaults.
	again, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), again)
}

func TestLoadFillsDefaults(t *testing.T) {
	base := t.TempDir()
	body := "// partial\n{\n  // only the interval\n  \"refresh_interval\": \"30s\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.json"), []byte(body), 0o600))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, Duration(30*time.Second), cfg.RefreshInterval)
	assert.Equal(t, 7.2, cfg.DefaultWorkdayHours)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.json"), []byte(`{"refresh_interval": "soon"}`), 0o600))

	cfg, err := Load(base)
	assert.Error(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// a\n{\n   // b\n\"x\": 1 // kept\n}")
	assert.Equal(t, "{\n\"x\": 1 // kept\n}\n", string(stripLineComments(in)))
}
