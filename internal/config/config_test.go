package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.DataDir != "./data" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Sched.Shards != 4 || cfg.Sched.Workers != 2 {
		t.Fatalf("sched defaults: %+v", cfg.Sched)
	}
	if !cfg.Stats.Enabled || !cfg.Audit.Enabled {
		t.Fatalf("recorder defaults: %+v %+v", cfg.Stats, cfg.Audit)
	}
}

func TestLoad_FileOverridesAndNormalizes(t *testing.T) {
	p := filepath.Join(t.TempDir(), "server.yaml")
	body := `
listen_addr: " :9090 "
data_dir: /srv/menus
sched:
  shards: 0
  workers: 8
menus:
  catalog_refresh_ms: 2000
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("listen_addr: %q", cfg.ListenAddr)
	}
	if cfg.Sched.Shards != 1 {
		t.Fatalf("shards not clamped: %d", cfg.Sched.Shards)
	}
	if cfg.Sched.Workers != 8 {
		t.Fatalf("workers: %d", cfg.Sched.Workers)
	}
	if cfg.Menus.CatalogRefresh() != 2*time.Second {
		t.Fatalf("catalog refresh: %v", cfg.Menus.CatalogRefresh())
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestLoad_BadYAMLFails(t *testing.T) {
	p := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(p, []byte("listen_addr: [broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("broken yaml accepted")
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.ListenAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty listen_addr accepted")
	}
	cfg = defaults()
	cfg.Menus.CatalogRefreshMs = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative refresh accepted")
	}
}
