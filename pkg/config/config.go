// Package config loads joyodb settings from YAML and the environment.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Tables   TablesConfig   `yaml:"tables"`
	JMdict   JMdictConfig   `yaml:"jmdict"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"JOYODB_DB_PATH" env-default:"joyo.db"`
}

// IngestConfig holds pipeline settings.
type IngestConfig struct {
	Workers       int           `yaml:"workers"        env:"JOYODB_INGEST_WORKERS"        env-default:"4"`
	BatchSize     int           `yaml:"batch_size"     env:"JOYODB_INGEST_BATCH_SIZE"     env-default:"50"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"JOYODB_INGEST_FLUSH_INTERVAL" env-default:"100ms"`
	SkipBroken    bool          `yaml:"skip_broken"    env:"JOYODB_INGEST_SKIP_BROKEN"`
}

// TablesConfig points at TSV files replacing the built-in character tables.
// Both paths must be set together.
type TablesConfig struct {
	PopularAlternatives string `yaml:"popular_alternatives" env:"JOYODB_TABLES_POPULAR"`
	Variants            string `yaml:"variants"             env:"JOYODB_TABLES_VARIANTS"`
}

// JMdictConfig holds the dictionary used by the compound check.
type JMdictConfig struct {
	Path         string `yaml:"path"          env:"JOYODB_JMDICT_PATH"`
	AutoDownload bool   `yaml:"auto_download" env:"JOYODB_JMDICT_AUTO_DOWNLOAD"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"JOYODB_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"JOYODB_LOG_FORMAT" env-default:"console"`
}
