// Package duckdb provides a DuckDB warehouse adapter for meridian.
//
// This file registers the DuckDB adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/meridianhq/meridian/pkg/adapters/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/meridianhq/meridian/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
