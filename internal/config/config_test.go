package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tsx.config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultMode != "interpret" || cfg.StrictByDefault {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsx.config.yaml")
	content := "strict: true\nmode: compile\nentry: src/main.ts\nmodulePaths:\n  - ./lib\n  - ./vendor\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.StrictByDefault {
		t.Error("expected strict true")
	}
	if cfg.DefaultMode != "compile" {
		t.Errorf("expected mode compile, got %s", cfg.DefaultMode)
	}
	if cfg.EntryFile != "src/main.ts" {
		t.Errorf("expected entry src/main.ts, got %s", cfg.EntryFile)
	}
	if len(cfg.ModulePaths) != 2 || cfg.ModulePaths[0] != "./lib" {
		t.Errorf("unexpected modulePaths: %v", cfg.ModulePaths)
	}
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsx.config.yaml")
	if err := os.WriteFile(path, []byte("mode: sideways\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}
