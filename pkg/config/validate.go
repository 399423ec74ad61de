package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must be set")
	}
	if err := c.Ingest.validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if (c.Tables.PopularAlternatives == "") != (c.Tables.Variants == "") {
		return fmt.Errorf("tables: popular_alternatives and variants must be set together")
	}
	if c.JMdict.AutoDownload && c.JMdict.Path == "" {
		return fmt.Errorf("jmdict: auto_download needs a path")
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log: format must be json or console (got %q)", c.Log.Format)
	}
	return nil
}

func (i *IngestConfig) validate() error {
	if i.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", i.Workers)
	}
	if i.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", i.BatchSize)
	}
	if i.FlushInterval < 0 {
		return fmt.Errorf("flush_interval must be >= 0 (got %s)", i.FlushInterval)
	}
	return nil
}

// ZapLevel parses Level.
func (l LogConfig) ZapLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(l.Level)
}
