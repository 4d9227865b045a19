package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"DefaultFormat", cfg.DefaultFormat, FormatYAML},
		{"EventsPath", cfg.EventsPath, ""},
		{"RenderFormat", cfg.RenderFormat, "svg"},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"binary format", &Config{DefaultFormat: FormatBinary, RenderFormat: "png"}, false},
		{"bad format", &Config{DefaultFormat: "xml", RenderFormat: "svg"}, true},
		{"bad render format", &Config{DefaultFormat: FormatYAML, RenderFormat: "jpeg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFileWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "default_format: binary\nrender_format: png\nverbose: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GFR_RENDER_FORMAT", "dot")
	t.Setenv("GFR_EVENTS_PATH", "/tmp/gfr-events.bin")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.DefaultFormat != FormatBinary {
		t.Errorf("DefaultFormat = %v, want binary", cfg.DefaultFormat)
	}
	if cfg.RenderFormat != "dot" {
		t.Errorf("RenderFormat = %v, want env override dot", cfg.RenderFormat)
	}
	if cfg.EventsPath != "/tmp/gfr-events.bin" {
		t.Errorf("EventsPath = %v, want env override", cfg.EventsPath)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true from file")
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.DefaultFormat != FormatYAML {
		t.Errorf("DefaultFormat = %v, want yaml", cfg.DefaultFormat)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultFormat = FormatBinary
	cfg.EventsPath = "runs.bin"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if got.DefaultFormat != FormatBinary || got.EventsPath != "runs.bin" {
		t.Errorf("round trip = %+v", got)
	}
}
