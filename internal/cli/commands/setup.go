// Package commands contains the meridian subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/meridianhq/meridian/internal/config"
	"github.com/meridianhq/meridian/internal/engine"
	"github.com/meridianhq/meridian/internal/worldbank"
	"github.com/spf13/cobra"
)

// getConfig returns the configuration loaded by the root command, or a
// defaults-only config when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		StatePath: config.DefaultStateFile,
		SQLDir:    config.DefaultSQLDir,
	}
}

// getLogger returns the logger stored in the command context.
func getLogger(cmd *cobra.Command) *slog.Logger {
	return config.GetLogger(cmd.Context())
}

// createEngine creates an engine from the current configuration.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	engineCfg := engine.Config{
		StatePath: cfg.StatePath,
		SQLDir:    cfg.SQLDir,
		API: worldbank.Config{
			BaseURL:  cfg.API.BaseURL,
			MaxPages: cfg.API.MaxPages,
			Timeout:  cfg.API.Timeout,
			Logger:   logger,
		},
		Logger: logger,
	}
	if cfg.Target != nil {
		engineCfg.AdapterConfig = cfg.Target.ToAdapterConfig()
	}

	return engine.New(engineCfg)
}

// selectSpecs resolves the pipelines to run. With no names, every configured
// pipeline is selected in name order. Unknown names are an error.
func selectSpecs(cfg *config.Config, names []string) ([]engine.PipelineSpec, error) {
	if len(cfg.Pipelines) == 0 {
		return nil, fmt.Errorf("no pipelines configured, add a pipelines: section to %s", config.ConfigFileName)
	}

	if len(names) == 0 {
		names = make([]string, 0, len(cfg.Pipelines))
		for name := range cfg.Pipelines {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	specs := make([]engine.PipelineSpec, 0, len(names))
	for _, name := range names {
		pc, ok := cfg.Pipelines[name]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline: %s", name)
		}
		spec, err := engine.SpecFromConfig(name, pc)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
