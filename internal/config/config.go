package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level finsight.yaml configuration.
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LedgerConfig locates the CSV ledger directory.
type LedgerConfig struct {
	Root string `yaml:"root"`
}

// AnalysisConfig tunes the analytics windows and thresholds.
type AnalysisConfig struct {
	HealthWindowDays   int     `yaml:"health_window_days"`
	PatternWindowDays  int     `yaml:"pattern_window_days"`
	SeasonalWindowDays int     `yaml:"seasonal_window_days"`
	HorizonDays        int     `yaml:"horizon_days"`
	ImpulseThreshold   float64 `yaml:"impulse_threshold"` // R$, below this a purchase counts as impulse-sized
}

// StoreConfig selects the prediction store driver and DSN.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `yaml:"dsn"`
}

// CacheConfig sizes the insights cache.
type CacheConfig struct {
	MaxItems   int64 `yaml:"max_items"`
	TTLSeconds int   `yaml:"ttl_seconds"`
}

// SweepConfig controls prediction archival and purging.
type SweepConfig struct {
	Schedule      string `yaml:"schedule"` // cron expression for --watch
	RetentionDays int    `yaml:"retention_days"`
	BatchSize     int    `yaml:"batch_size"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a finsight.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(ledgerRoot string) *Config {
	return &Config{
		Ledger: LedgerConfig{
			Root: ledgerRoot,
		},
		Analysis: AnalysisConfig{
			HealthWindowDays:   180,
			PatternWindowDays:  90,
			SeasonalWindowDays: 730,
			HorizonDays:        30,
			ImpulseThreshold:   100,
		},
		Store: StoreConfig{
			Driver: "sqlite3",
			DSN:    "predictions.db",
		},
		Cache: CacheConfig{
			MaxItems:   1000,
			TTLSeconds: 300,
		},
		Sweep: SweepConfig{
			Schedule:      "0 3 * * *",
			RetentionDays: 90,
			BatchSize:     500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
