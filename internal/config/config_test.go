package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "log_level: debug\ndefault_formats: [ASC, png]\nwrite_manifest: true\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.WriteManifest {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.LoadModules {
		t.Fatalf("expected load_modules default to survive")
	}
	if !reflect.DeepEqual(cfg.DefaultFormats, []string{"ASC", "png"}) {
		t.Fatalf("unexpected formats %v", cfg.DefaultFormats)
	}
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "cfg.yaml")
	in := Default()
	in.HistoryDB = "history.db"
	in.StartupScript = "setup.txt"
	in.LoadModules = false
	if err := Save(p, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}
