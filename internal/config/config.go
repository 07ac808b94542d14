package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Environment variables recognized by LoadFromEnv. Names are part of the
// deployment contract and must not change between releases.
const (
	EnvSizeCutoff = "FADV_SMALL_CUTOFF"
	EnvOpenHint   = "FADV_OPEN_HINT"
	EnvCloseDrop  = "FADV_CLOSE_DROP"
)

// DefaultSizeCutoff is the size threshold below which files are considered
// small enough to hint. 1 MiB.
const DefaultSizeCutoff = int64(1 << 20)

// Settings represents the complete shim configuration. It is populated once
// during shim initialization and treated as read-only afterwards, so
// concurrent reads need no synchronization.
type Settings struct {
	// SizeCutoff is the maximum file size, in bytes, eligible for
	// advisory hints.
	SizeCutoff int64 `yaml:"size_cutoff"`

	// OpenHintEnabled applies a no-reuse hint to eligible descriptors
	// at open time.
	OpenHintEnabled bool `yaml:"open_hint"`

	// CloseDropEnabled drops cached pages for eligible descriptors
	// before close.
	CloseDropEnabled bool `yaml:"close_drop"`

	Global  GlobalSettings  `yaml:"global"`
	Metrics MetricsSettings `yaml:"metrics"`
}

// GlobalSettings represents ambient runtime settings.
type GlobalSettings struct {
	LogLevel string `yaml:"log_level"`
}

// MetricsSettings represents metrics collection settings.
type MetricsSettings struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// NewDefault returns a configuration with sensible defaults: hints active
// for regular files up to 1 MiB.
func NewDefault() *Settings {
	return &Settings{
		SizeCutoff:       DefaultSizeCutoff,
		OpenHintEnabled:  true,
		CloseDropEnabled: true,
		Global: GlobalSettings{
			LogLevel: "INFO",
		},
		Metrics: MetricsSettings{
			Enabled:   true,
			Namespace: "fadvshim",
		},
	}
}

// LoadFromFile loads configuration from a YAML file, overriding only the
// keys present in the file.
func (s *Settings) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables. Values that
// fail to parse leave the current setting in effect; the shim never refuses
// to start over a malformed tunable.
func (s *Settings) LoadFromEnv() {
	if val := os.Getenv(EnvSizeCutoff); val != "" {
		if cutoff, err := strconv.ParseInt(val, 10, 64); err == nil && cutoff > 0 {
			s.SizeCutoff = cutoff
		}
	}

	if val := os.Getenv(EnvOpenHint); val != "" {
		switch val {
		case "none":
			s.OpenHintEnabled = false
		case "noreuse":
			s.OpenHintEnabled = true
		}
	}

	if val := os.Getenv(EnvCloseDrop); val != "" {
		s.CloseDropEnabled = val != "0"
	}
}

// Validate validates the configuration.
func (s *Settings) Validate() error {
	if s.SizeCutoff <= 0 {
		return fmt.Errorf("size_cutoff must be greater than 0")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if s.Global.LogLevel == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			s.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}
