package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Autocomplete.DebounceMs != 300 {
		t.Errorf("default debounce_ms = %d, want 300", cfg.Autocomplete.DebounceMs)
	}
	if cfg.Autocomplete.Wait() != 300*time.Millisecond {
		t.Errorf("Wait() = %v, want 300ms", cfg.Autocomplete.Wait())
	}
	if cfg.Service.Language != "en" {
		t.Errorf("default language = %q, want en", cfg.Service.Language)
	}
	if len(cfg.Service.Libraries) != 1 || cfg.Service.Libraries[0] != "places" {
		t.Errorf("default libraries = %v, want [places]", cfg.Service.Libraries)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[service]
language = "pt-BR"
libraries = ["places", "geometry"]

[autocomplete]
debounce_ms = 150
max_predictions = 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Service.Language != "pt-BR" {
		t.Errorf("language = %q, want pt-BR", cfg.Service.Language)
	}
	if len(cfg.Service.Libraries) != 2 {
		t.Errorf("libraries = %v, want two entries", cfg.Service.Libraries)
	}
	if cfg.Autocomplete.DebounceMs != 150 {
		t.Errorf("debounce_ms = %d, want 150", cfg.Autocomplete.DebounceMs)
	}
	// Untouched keys keep their defaults.
	if cfg.Autocomplete.MaxInput != 120 {
		t.Errorf("max_input = %d, want default 120", cfg.Autocomplete.MaxInput)
	}
	if cfg.CLI.DefaultLimit != 5 {
		t.Errorf("cli default_limit = %d, want default 5", cfg.CLI.DefaultLimit)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Autocomplete.DebounceMs != 300 {
		t.Errorf("created config has debounce_ms = %d, want 300", cfg.Autocomplete.DebounceMs)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}

	// Round trip: the file just written should load cleanly.
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Service.Language != cfg.Service.Language {
		t.Errorf("reloaded language = %q, want %q", reloaded.Service.Language, cfg.Service.Language)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	// Unknown section should not break loading of known ones.
	content := `
[service]
language = "de"

[something_else]
mystery = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Service.Language != "de" {
		t.Errorf("language = %q, want de", cfg.Service.Language)
	}
}
