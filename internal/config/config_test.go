package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.SizeCutoff != 1<<20 {
		t.Errorf("Expected SizeCutoff to be 1 MiB, got %d", cfg.SizeCutoff)
	}
	if !cfg.OpenHintEnabled {
		t.Error("Expected OpenHintEnabled to be true by default")
	}
	if !cfg.CloseDropEnabled {
		t.Error("Expected CloseDropEnabled to be true by default")
	}
	if cfg.Global.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel to be INFO, got %s", cfg.Global.LogLevel)
	}
	if cfg.Metrics.Namespace != "fadvshim" {
		t.Errorf("Expected metrics namespace fadvshim, got %s", cfg.Metrics.Namespace)
	}
}

func TestLoadFromEnv_SizeCutoff(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want int64
	}{
		{"positive integer overrides", "4096", 4096},
		{"large value accepted", "1048576", 1048576},
		{"zero keeps default", "0", DefaultSizeCutoff},
		{"negative keeps default", "-5", DefaultSizeCutoff},
		{"unparsable keeps default", "lots", DefaultSizeCutoff},
		{"trailing garbage keeps default", "123abc", DefaultSizeCutoff},
		{"unset keeps default", "", DefaultSizeCutoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvSizeCutoff, tt.val)

			cfg := NewDefault()
			cfg.LoadFromEnv()

			if cfg.SizeCutoff != tt.want {
				t.Errorf("SizeCutoff = %d, want %d", cfg.SizeCutoff, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_OpenHint(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want bool
	}{
		{"none disables", "none", false},
		{"noreuse enables", "noreuse", true},
		{"unrecognized token ignored", "aggressive", true},
		{"unset keeps default", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOpenHint, tt.val)

			cfg := NewDefault()
			cfg.LoadFromEnv()

			if cfg.OpenHintEnabled != tt.want {
				t.Errorf("OpenHintEnabled = %v, want %v", cfg.OpenHintEnabled, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_CloseDrop(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want bool
	}{
		{"zero disables", "0", false},
		{"one enables", "1", true},
		{"arbitrary value enables", "yes", true},
		{"unset keeps default", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvCloseDrop, tt.val)

			cfg := NewDefault()
			cfg.LoadFromEnv()

			if cfg.CloseDropEnabled != tt.want {
				t.Errorf("CloseDropEnabled = %v, want %v", cfg.CloseDropEnabled, tt.want)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shim.yaml")

	content := `
size_cutoff: 2097152
open_hint: false
metrics:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.SizeCutoff != 2097152 {
		t.Errorf("SizeCutoff = %d, want 2097152", cfg.SizeCutoff)
	}
	if cfg.OpenHintEnabled {
		t.Error("Expected OpenHintEnabled to be false after file load")
	}
	// Keys absent from the file keep their defaults.
	if !cfg.CloseDropEnabled {
		t.Error("Expected CloseDropEnabled to keep its default")
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be disabled after file load")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shim.yaml")
	if err := os.WriteFile(path, []byte("size_cutoff: 4096\n"), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(EnvSizeCutoff, "8192")

	cfg := NewDefault()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	cfg.LoadFromEnv()

	if cfg.SizeCutoff != 8192 {
		t.Errorf("SizeCutoff = %d, want env value 8192", cfg.SizeCutoff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Settings) {},
			wantErr: false,
		},
		{
			name:    "zero cutoff rejected",
			mutate:  func(s *Settings) { s.SizeCutoff = 0 },
			wantErr: true,
		},
		{
			name:    "bad log level rejected",
			mutate:  func(s *Settings) { s.Global.LogLevel = "LOUD" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
