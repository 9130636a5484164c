// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/duelstudy/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Paths  PathsConfig  `toml:"paths"`
	Log    LogConfig    `toml:"log"`
	Report ReportConfig `toml:"report"`
	Modes  []ModeConfig `toml:"modes"`
}

// PathsConfig maps input and output locations.
type PathsConfig struct {
	Survey  *string `toml:"survey"`
	Metrics *string `toml:"metrics"`
	Output  *string `toml:"output"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// ReportConfig maps optional console and file outputs.
type ReportConfig struct {
	TerminalPlots *bool `toml:"terminal-plots"`
	Export        *bool `toml:"export"`
	Participants  *bool `toml:"participants"`
}

// ModeConfig is one entry of the mode table.
type ModeConfig struct {
	Label              string `toml:"label"`
	Bot                string `toml:"bot"`
	ExcludeCalibration bool   `toml:"exclude_calibration"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ModeSpecs returns the configured mode table, or the default one when none is set.
func (c FileConfig) ModeSpecs() []model.ModeSpec {
	if len(c.Modes) == 0 {
		return model.DefaultModes()
	}
	specs := make([]model.ModeSpec, 0, len(c.Modes))
	for _, m := range c.Modes {
		specs = append(specs, model.ModeSpec{
			Label:              strings.TrimSpace(m.Label),
			Bot:                strings.TrimSpace(m.Bot),
			ExcludeCalibration: m.ExcludeCalibration,
		})
	}
	return specs
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the effective analysis settings.
func Validate(cfg model.Config) error {
	if strings.TrimSpace(cfg.SurveyPath) == "" {
		return fmt.Errorf("survey path must not be empty")
	}
	if strings.TrimSpace(cfg.MetricsDir) == "" {
		return fmt.Errorf("metrics directory must not be empty")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("log level must be one of: debug, info, warn, error")
	}
	if len(cfg.Modes) == 0 {
		return fmt.Errorf("at least one mode must be configured")
	}
	seen := make(map[string]struct{}, len(cfg.Modes))
	for i, m := range cfg.Modes {
		if m.Label == "" {
			return fmt.Errorf("mode %d: label must not be empty", i+1)
		}
		if m.Bot == "" {
			return fmt.Errorf("mode %q: bot must not be empty", m.Label)
		}
		if _, ok := seen[m.Label]; ok {
			return fmt.Errorf("mode %q is configured twice", m.Label)
		}
		seen[m.Label] = struct{}{}
	}
	return nil
}
