// Package main provides the CLI for the meridian indicator ETL.
package main

import (
	"os"

	"github.com/meridianhq/meridian/internal/cli"

	// Register warehouse adapters.
	_ "github.com/meridianhq/meridian/pkg/adapters/duckdb"
	_ "github.com/meridianhq/meridian/pkg/adapters/postgres"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
