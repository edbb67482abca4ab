// Package adapter provides warehouse adapter interfaces and shared
// implementations for the meridian pipeline.
//
// This package contains the public contract that all warehouse adapters must
// implement. Concrete adapter implementations are in pkg/adapters/
// subdirectories and register themselves via init().
package adapter

import (
	"context"
	"database/sql"
)

// Config holds connection settings for a warehouse adapter.
type Config struct {
	Type string // postgres, duckdb

	// File-based databases (DuckDB)
	Path string

	// Network databases
	Host     string
	Port     int
	Database string
	Schema   string
	Username string
	Password string

	// Additional driver-specific options (e.g. sslmode)
	Options map[string]string
}

// IndicatorRow is one row of the persisted indicator table.
// (year, country_code) is the composite primary key.
type IndicatorRow struct {
	Year           int
	CountryCode    string
	CountryName    string
	IndicatorID    string
	IndicatorValue string
	Value          float64
	Region         string
}

// Key returns the natural key of the row.
func (r IndicatorRow) Key() RowKey {
	return RowKey{Year: r.Year, CountryCode: r.CountryCode}
}

// RowKey is the composite primary key of an indicator row.
type RowKey struct {
	Year        int
	CountryCode string
}

// Adapter defines the interface that all warehouse adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the warehouse using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*sql.Rows, error)

	// TableExists reports whether the named table exists in the target schema.
	TableExists(ctx context.Context, table string) (bool, error)

	// MaxInt returns max(column) over the table. ok is false when the table
	// is empty (SQL NULL); callers must treat that the same as a missing
	// table, not as an error.
	MaxInt(ctx context.Context, table, column string) (max int64, ok bool, err error)

	// Insert appends rows. A duplicate (year, country_code) key fails the
	// whole batch with a *ConstraintError and leaves the table unchanged.
	Insert(ctx context.Context, table string, rows []IndicatorRow) (int64, error)

	// Upsert reconciles rows against the table: existing keys have their
	// non-key columns updated, new keys are inserted. Atomic per call.
	// Callers must deduplicate rows on the natural key first.
	Upsert(ctx context.Context, table string, rows []IndicatorRow) (int64, error)

	// Overwrite drops and recreates the table, then inserts all rows,
	// in a single transaction.
	Overwrite(ctx context.Context, table string, rows []IndicatorRow) (int64, error)
}
