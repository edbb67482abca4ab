package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// exampleSQL is the scaffolded derived-table query. The engine renders it
// with {{.Table}} set to the derived table and {{.BaseTable}} to the loaded
// base table.
const exampleSQL = `SELECT
    year,
    country_name,
    region,
    indicator_value,
    RANK() OVER (PARTITION BY year ORDER BY value DESC) AS value_rank
FROM {{.BaseTable}}
ORDER BY year, value_rank
`

// exampleRegions seeds a minimal country classification file.
const exampleRegions = `Code,Economy,Region,Income group
DEU,Germany,Europe & Central Asia,High income
FRA,France,Europe & Central Asia,High income
JPN,Japan,East Asia & Pacific,High income
SGP,Singapore,East Asia & Pacific,High income
USA,United States,North America,High income
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new meridian project",
		Long: `Initialize a new meridian project with a starter configuration.

This creates:
  - meridian.yaml configuration with one example pipeline
  - sql/ directory with an example derived-table query
  - data/regions.csv with a minimal country classification file`,
		Example: `  # Initialize in the current directory
  meridian init

  # Initialize in a new directory
  meridian init my-project

  # Force overwrite existing configuration
  meridian init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "meridian.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("meridian.yaml already exists. Use --force to overwrite")
	}

	starter := map[string]any{
		"state_path": ".meridian/state.db",
		"sql_dir":    "sql",
		"target": map[string]any{
			"type": "duckdb",
			"path": "meridian.duckdb",
		},
		"pipelines": map[string]any{
			"unemployment": map[string]any{
				"indicator":  "SL.UEM.TOTL.ZS",
				"table":      "unemployment",
				"date_range": "2000:2024",
				"extract": map[string]any{
					"mode":               "incremental",
					"incremental_column": "year",
				},
				"load_method":   "upsert",
				"region_file":   "data/regions.csv",
				"derived_table": "unemployment_ranked",
			},
		},
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, "sql", "unemployment_ranked.sql"), exampleSQL},
		{filepath.Join(dir, "data", "regions.csv"), exampleRegions},
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		if _, err := os.Stat(f.path); err == nil && !force {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Meridian project initialized!")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Point data/regions.csv at your full country classification file")
	fmt.Fprintln(out, "  2. Adjust the pipelines: section in meridian.yaml")
	fmt.Fprintln(out, "  3. Run 'meridian run' to load the example pipeline")
	fmt.Fprintln(out, "  4. Run 'meridian runs' to inspect run history")

	return nil
}
