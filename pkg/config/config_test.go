package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "joyodb.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  path: "/var/lib/joyodb/joyo.db"

ingest:
  workers: 8
  batch_size: 100
  flush_interval: "250ms"
  skip_broken: true

tables:
  popular_alternatives: "popular.tsv"
  variants: "variants.tsv"

jmdict:
  path: "jmdict-eng-common.json"

log:
  level: "debug"
  format: "json"
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("JOYODB_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/var/lib/joyodb/joyo.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Ingest.Workers != 8 || cfg.Ingest.BatchSize != 100 {
		t.Errorf("Ingest = %+v", cfg.Ingest)
	}
	if cfg.Ingest.FlushInterval != 250*time.Millisecond {
		t.Errorf("FlushInterval = %s", cfg.Ingest.FlushInterval)
	}
	if !cfg.Ingest.SkipBroken {
		t.Errorf("SkipBroken = false, want true")
	}
	if cfg.Tables.Variants != "variants.tsv" {
		t.Errorf("Tables.Variants = %q", cfg.Tables.Variants)
	}
	if lvl, _ := cfg.Log.ZapLevel(); lvl != zapcore.DebugLevel {
		t.Errorf("level = %s, want debug", lvl)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOYODB_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "joyo.db" {
		t.Errorf("Database.Path = %q, want joyo.db", cfg.Database.Path)
	}
	if cfg.Ingest.Workers != 4 || cfg.Ingest.BatchSize != 50 || cfg.Ingest.FlushInterval != 100*time.Millisecond {
		t.Errorf("Ingest = %+v", cfg.Ingest)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("JOYODB_INGEST_WORKERS", "2")
	t.Setenv("JOYODB_DB_PATH", "other.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ingest.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Ingest.Workers)
	}
	if cfg.Database.Path != "other.db" {
		t.Errorf("Database.Path = %q, want other.db", cfg.Database.Path)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Path: "joyo.db"},
			Ingest:   IngestConfig{Workers: 1, BatchSize: 1},
			Log:      LogConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no database", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }, "workers"},
		{"zero batch", func(c *Config) { c.Ingest.BatchSize = 0 }, "batch_size"},
		{"negative flush", func(c *Config) { c.Ingest.FlushInterval = -time.Second }, "flush_interval"},
		{"half tables", func(c *Config) { c.Tables.Variants = "v.tsv" }, "set together"},
		{"download without path", func(c *Config) { c.JMdict.AutoDownload = true }, "auto_download"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
