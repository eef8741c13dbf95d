// Package config loads the server configuration from YAML, with defaults
// that run a dev server out of the box.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir"`

	Sched SchedConfig `yaml:"sched"`
	Stats StatsConfig `yaml:"stats"`
	Audit AuditConfig `yaml:"audit"`
	Menus MenusConfig `yaml:"menus"`
}

type SchedConfig struct {
	Shards  int `yaml:"shards"`
	Workers int `yaml:"workers"`
}

type StatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MenusConfig struct {
	CatalogRefreshMs int `yaml:"catalog_refresh_ms"`
}

// CatalogRefresh is the ware-catalog re-render period. Zero disables it.
func (m MenusConfig) CatalogRefresh() time.Duration {
	return time.Duration(m.CatalogRefreshMs) * time.Millisecond
}

// Load reads path, or returns defaults when path is empty. A missing file
// at an explicit path is an error; broken templates and broken config both
// fail at startup.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("server.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("server.yaml: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		DataDir:    "./data",
		Sched:      SchedConfig{Shards: 4, Workers: 2},
		Stats:      StatsConfig{Enabled: true, Path: ""},
		Audit:      AuditConfig{Enabled: true},
		Menus:      MenusConfig{CatalogRefreshMs: 5000},
	}
}

func (c *Config) Normalize() {
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.Sched.Shards < 1 {
		c.Sched.Shards = 1
	}
	if c.Sched.Workers < 1 {
		c.Sched.Workers = 1
	}
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Menus.CatalogRefreshMs < 0 {
		return fmt.Errorf("menus.catalog_refresh_ms must not be negative")
	}
	return nil
}
