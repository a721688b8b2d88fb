// Package config loads the player configuration from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/igenius/soroban/internal/narrator"
)

// DefaultBaseURL points at the production drill backend.
const DefaultBaseURL = "https://igenius-back.demovoting.com/api"

// Config is the player configuration.
type Config struct {
	// BaseURL is the backend API root, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// Speed is the narration rate. Must be one of narrator.Rates.
	Speed float64 `yaml:"speed"`

	// Muted starts playback with narration off.
	Muted bool `yaml:"muted"`

	// SpeakEquals narrates the equals marker at the end of each sequence.
	SpeakEquals bool `yaml:"speak_equals"`

	// PreferredVoices overrides the built-in voice preference order.
	PreferredVoices []string `yaml:"preferred_voices,omitempty"`

	// HistoryDB is the path of the session history database. Empty
	// disables history recording.
	HistoryDB string `yaml:"history_db,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Speed:     narrator.DefaultRate,
		HistoryDB: defaultHistoryPath(),
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "soroban-history.db"
	}
	return filepath.Join(dir, "soroban", "history.db")
}

// Load reads and parses a config file, layering it over the defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Strict field validation catches typos like "speeed:".
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values against their allowed ranges.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !narrator.ValidRate(c.Speed) {
		return fmt.Errorf("speed %v: must be one of %v", c.Speed, narrator.Rates)
	}
	return nil
}
