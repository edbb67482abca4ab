package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// indicatorColumns is the fixed column list of the persisted indicator table,
// in insert order.
var indicatorColumns = []string{
	"year", "country_code", "country_name",
	"indicator_id", "indicator_value", "value", "region",
}

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and loader implementations. Concrete adapters supply
// the placeholder style and duplicate-key detection of their driver.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger

	// Placeholder formats the n-th (1-based) bind placeholder ($1 or ?).
	Placeholder func(n int) string

	// IsDuplicateKey reports whether the driver error is a unique/primary
	// key violation.
	IsDuplicateKey func(err error) bool
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.IsConnected() {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if !b.IsConnected() {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	if !b.IsConnected() {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ParseQualifiedName splits a table reference into schema and name, using
// the config's schema (or defaultSchema) when unqualified.
func (b *BaseSQLAdapter) ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	if b.Cfg.Schema != "" {
		return b.Cfg.Schema, table
	}
	return defaultSchema, table
}

// TableExists checks information_schema for the table.
func (b *BaseSQLAdapter) TableExists(ctx context.Context, table string) (bool, error) {
	if !b.IsConnected() {
		return false, fmt.Errorf("database connection not established")
	}

	schema, name := b.ParseQualifiedName(table, "public")

	//nolint:gosec // Placeholders come from the adapter's dialect, not user input
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = %s AND table_name = %s
	`, b.Placeholder(1), b.Placeholder(2))

	var count int64
	if err := b.DB.QueryRowContext(ctx, query, schema, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return count > 0, nil
}

// MaxInt returns max(column) for the table. ok is false on SQL NULL
// (empty table).
func (b *BaseSQLAdapter) MaxInt(ctx context.Context, table, column string) (int64, bool, error) {
	if !b.IsConnected() {
		return 0, false, fmt.Errorf("database connection not established")
	}

	//nolint:gosec // Table and column names come from validated configuration
	query := fmt.Sprintf("SELECT max(%s) FROM %s", column, table)

	var max sql.NullInt64
	if err := b.DB.QueryRowContext(ctx, query).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("failed to query max(%s) on %s: %w", column, table, err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return max.Int64, true, nil
}

// createTableSQL returns the DDL for the indicator table. The column types
// are valid in both PostgreSQL and DuckDB.
func createTableSQL(table string, ifNotExists bool) string {
	clause := ""
	if ifNotExists {
		clause = "IF NOT EXISTS "
	}
	return fmt.Sprintf(`CREATE TABLE %s%s (
	year BIGINT NOT NULL,
	country_code TEXT NOT NULL,
	country_name TEXT,
	indicator_id TEXT,
	indicator_value TEXT,
	value DOUBLE PRECISION,
	region TEXT,
	PRIMARY KEY (year, country_code)
)`, clause, table)
}

// insertSQL builds the parameterized insert statement, optionally with the
// ON CONFLICT upsert clause.
func (b *BaseSQLAdapter) insertSQL(table string, upsert bool) string {
	placeholders := make([]string, len(indicatorColumns))
	for i := range indicatorColumns {
		placeholders[i] = b.Placeholder(i + 1)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(indicatorColumns, ", "),
		strings.Join(placeholders, ", "))

	if upsert {
		stmt += ` ON CONFLICT (year, country_code) DO UPDATE SET
	country_name = EXCLUDED.country_name,
	indicator_id = EXCLUDED.indicator_id,
	indicator_value = EXCLUDED.indicator_value,
	value = EXCLUDED.value,
	region = EXCLUDED.region`
	}

	return stmt
}

// Insert appends rows, failing the whole batch with a *ConstraintError on a
// duplicate key. An empty input is a no-op returning 0.
func (b *BaseSQLAdapter) Insert(ctx context.Context, table string, rows []IndicatorRow) (int64, error) {
	return b.write(ctx, table, rows, false, false)
}

// Upsert reconciles rows with the table via INSERT ... ON CONFLICT DO UPDATE.
// Concurrent upserts on the same keys are serialized by the store's own
// conflict resolution; the composite key constraint is what the store
// enforces. An empty input is a no-op returning 0.
func (b *BaseSQLAdapter) Upsert(ctx context.Context, table string, rows []IndicatorRow) (int64, error) {
	return b.write(ctx, table, rows, true, false)
}

// Overwrite drops and recreates the table, then inserts all rows, all inside
// one transaction. An empty input is a no-op returning 0.
func (b *BaseSQLAdapter) Overwrite(ctx context.Context, table string, rows []IndicatorRow) (int64, error) {
	return b.write(ctx, table, rows, false, true)
}

// write runs the shared transactional load path.
func (b *BaseSQLAdapter) write(ctx context.Context, table string, rows []IndicatorRow, upsert, overwrite bool) (int64, error) {
	if !b.IsConnected() {
		return 0, fmt.Errorf("database connection not established")
	}
	if len(rows) == 0 {
		if b.Logger != nil {
			b.Logger.Debug("no rows to load", slog.String("table", table))
		}
		return 0, nil
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if overwrite {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, createTableSQL(table, false)); err != nil {
			return 0, fmt.Errorf("failed to recreate table %s: %w", table, err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, createTableSQL(table, true)); err != nil {
			return 0, fmt.Errorf("failed to ensure table %s: %w", table, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, b.insertSQL(table, upsert))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Year, row.CountryCode, row.CountryName,
			row.IndicatorID, row.IndicatorValue, row.Value, row.Region)
		if err != nil {
			if b.IsDuplicateKey != nil && b.IsDuplicateKey(err) {
				return 0, &ConstraintError{Table: table, Err: err}
			}
			return 0, fmt.Errorf("failed to load row (%d, %s) into %s: %w",
				row.Year, row.CountryCode, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit load into %s: %w", table, err)
	}

	if b.Logger != nil {
		b.Logger.Debug("rows loaded", slog.String("table", table), slog.Int("rows", len(rows)))
	}
	return int64(len(rows)), nil
}
