// Package config loads the runtime configuration for the progress daemon
// and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/focus"
	"github.com/pillarcoach/progress-engine/internal/streak"
)

// Config holds the runtime configuration. None of it reaches the engine
// itself: anchor defaulting and window bounding happen in the provider.
type Config struct {
	DBPath       string `json:"db_path" yaml:"db_path"`
	ListenAddr   string `json:"listen_addr" yaml:"listen_addr"`
	Timezone     string `json:"timezone" yaml:"timezone"`
	StreakWindow int    `json:"streak_window" yaml:"streak_window"`
	FocusCap     int    `json:"focus_cap" yaml:"focus_cap"`
}

// Load reads a JSON or YAML config file (by extension), applies defaults,
// and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config JSON: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves the configured timezone. The product runs in a single
// fixed timezone used only to decide what "today" means when a request
// carries no anchor date.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":9820"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/London"
	}
	if c.StreakWindow == 0 {
		c.StreakWindow = streak.DefaultWindow
	}
	if c.FocusCap == 0 {
		c.FocusCap = focus.DefaultCap
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "db_path is required")
	}
	if c.StreakWindow < 1 || c.StreakWindow > streak.MaxWindow {
		problems = append(problems, fmt.Sprintf("streak_window must be between 1 and %d", streak.MaxWindow))
	}
	if c.FocusCap < 1 {
		problems = append(problems, "focus_cap must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("unknown timezone %q", c.Timezone))
	}

	if len(problems) > 0 {
		return &domain.EngineError{
			Code:    domain.ErrConfigInvalid.Code,
			Message: fmt.Sprintf("%s: %v", domain.ErrConfigInvalid.Message, problems),
		}
	}
	return nil
}
