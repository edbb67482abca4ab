// Package transform rebuilds derived aggregate tables from templated SQL
// files after a base-table load commits.
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/meridianhq/meridian/pkg/adapter"
)

// Params are the values available to a derived-table SQL template.
type Params struct {
	// Table is the derived table being rebuilt.
	Table string
	// BaseTable is the freshly loaded table the query selects from.
	BaseTable string
}

// Recompute drops the derived table if present and recreates it as the
// materialized result of the rendered query in <sqlDir>/<derivedTable>.sql.
// It runs as its own unit of work: a failure here does not roll back the
// base-table load that preceded it.
func Recompute(ctx context.Context, db adapter.Adapter, sqlDir, derivedTable, baseTable string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	query, err := renderQuery(sqlDir, derivedTable, baseTable)
	if err != nil {
		return err
	}

	logger.Debug("recomputing derived table", slog.String("table", derivedTable))

	if err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", derivedTable)); err != nil {
		return fmt.Errorf("failed to drop derived table %s: %w", derivedTable, err)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s AS (\n%s\n)", derivedTable, strings.TrimSpace(query))
	if err := db.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create derived table %s: %w", derivedTable, err)
	}

	return nil
}

// renderQuery loads and renders the derived table's SQL template.
func renderQuery(sqlDir, derivedTable, baseTable string) (string, error) {
	path := filepath.Join(sqlDir, derivedTable+".sql")
	content, err := os.ReadFile(path) //nolint:gosec // Path is assembled from validated configuration
	if err != nil {
		return "", fmt.Errorf("failed to read transform SQL %s: %w", path, err)
	}

	tmpl, err := template.New(derivedTable).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse transform SQL %s: %w", path, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, Params{Table: derivedTable, BaseTable: baseTable}); err != nil {
		return "", fmt.Errorf("failed to render transform SQL %s: %w", path, err)
	}

	return sb.String(), nil
}
