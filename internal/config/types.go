// Package config provides configuration loading for meridian. Settings come
// from meridian.yaml, MERIDIAN_* environment variables and CLI flags, merged
// with precedence flags > env > file > defaults.
package config

import (
	"time"

	"github.com/meridianhq/meridian/pkg/adapter"
)

// TargetConfig holds warehouse target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, duckdb

	// File-based databases (DuckDB)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`

	// Common
	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// ToAdapterConfig converts the target settings into an adapter config.
func (t *TargetConfig) ToAdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     t.Type,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Schema:   t.Schema,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
	}
}

// ExtractConfig selects what date range a pipeline requests.
type ExtractConfig struct {
	// Mode is full or incremental.
	Mode string `koanf:"mode"`
	// IncrementalColumn is the watermark column, required in incremental mode.
	IncrementalColumn string `koanf:"incremental_column"`
}

// PipelineConfig configures one indicator pipeline. The original deployment
// ran a near-identical script per indicator; here each indicator is one
// entry under pipelines: in meridian.yaml.
type PipelineConfig struct {
	// Indicator is the statistical series code, e.g. SL.UEM.TOTL.ZS.
	Indicator string `koanf:"indicator"`
	// Table is the warehouse table the series is loaded into.
	Table string `koanf:"table"`
	// DateRange is the full extract range, "YYYY:YYYY" or bare "YYYY".
	DateRange string `koanf:"date_range"`
	// Extract picks full or incremental extraction.
	Extract ExtractConfig `koanf:"extract"`
	// LoadMethod is insert, upsert or overwrite. Defaults to upsert.
	LoadMethod string `koanf:"load_method"`
	// RegionFile is the path to the country classification CSV.
	RegionFile string `koanf:"region_file"`
	// Countries, when set, restricts rows to these country display names.
	Countries []string `koanf:"countries"`
	// DerivedTable, when set, is rebuilt from <sql_dir>/<derived_table>.sql
	// after a successful load.
	DerivedTable string `koanf:"derived_table"`
}

// APIConfig holds settings for the indicators API client.
type APIConfig struct {
	BaseURL  string        `koanf:"base_url"`
	MaxPages int           `koanf:"max_pages"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ScheduleConfig holds settings for the schedule command.
type ScheduleConfig struct {
	// Every is the interval between scheduled runs.
	Every time.Duration `koanf:"every"`
}

// Config holds all meridian configuration options.
type Config struct {
	StatePath string                    `koanf:"state_path"`
	SQLDir    string                    `koanf:"sql_dir"`
	Verbose   bool                      `koanf:"verbose"`
	Target    *TargetConfig             `koanf:"target"`
	API       APIConfig                 `koanf:"api"`
	Schedule  ScheduleConfig            `koanf:"schedule"`
	Pipelines map[string]PipelineConfig `koanf:"pipelines"`
}

// Default configuration values.
const (
	DefaultStateFile = ".meridian/state.db"
	DefaultSQLDir    = "sql"
	DefaultMaxPages  = 1000
	DefaultTimeout   = 30 * time.Second
	DefaultEvery     = time.Hour
)
