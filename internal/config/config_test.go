package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 1.0, cfg.Speed)
	assert.False(t, cfg.Muted)
	assert.False(t, cfg.SpeakEquals)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, "speed: 1.25\nmuted: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.25, cfg.Speed)
	assert.True(t, cfg.Muted)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080/api
speed: 0.75
speak_equals: true
preferred_voices: [Samantha, Google]
history_db: /tmp/h.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 0.75, cfg.Speed)
	assert.True(t, cfg.SpeakEquals)
	assert.Equal(t, []string{"Samantha", "Google"}, cfg.PreferredVoices)
	assert.Equal(t, "/tmp/h.db", cfg.HistoryDB)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "speeed: 1.25\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSpeed(t *testing.T) {
	path := writeConfig(t, "speed: 2.0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speed")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"off-menu speed", func(c *Config) { c.Speed = 1.1 }, true},
		{"slowest speed", func(c *Config) { c.Speed = 0.75 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
