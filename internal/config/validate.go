package config

import (
	"fmt"

	"github.com/meridianhq/meridian/internal/pipeline"
	"github.com/meridianhq/meridian/pkg/adapter"
)

// Validate checks the configuration and applies per-pipeline defaults.
// Returns a *pipeline.ConfigError naming the offending key.
func (c *Config) Validate() error {
	if c.Target != nil {
		if c.Target.Type == "" {
			return &pipeline.ConfigError{Key: "target.type", Reason: "required"}
		}
		if !adapter.IsRegistered(c.Target.Type) {
			return &adapter.UnknownAdapterError{
				Type:      c.Target.Type,
				Available: adapter.ListAdapters(),
			}
		}
	}

	for name, pc := range c.Pipelines {
		validated, err := validatePipeline(name, pc)
		if err != nil {
			return err
		}
		c.Pipelines[name] = validated
	}

	return nil
}

// validatePipeline checks required keys and parses the closed mode values,
// applying defaults for optional ones.
func validatePipeline(name string, pc PipelineConfig) (PipelineConfig, error) {
	key := func(field string) string { return fmt.Sprintf("pipelines.%s.%s", name, field) }

	if pc.Indicator == "" {
		return pc, &pipeline.ConfigError{Key: key("indicator"), Reason: "required"}
	}
	if pc.Table == "" {
		return pc, &pipeline.ConfigError{Key: key("table"), Reason: "required"}
	}
	if pc.DateRange == "" {
		return pc, &pipeline.ConfigError{Key: key("date_range"), Reason: "required"}
	}
	if pc.RegionFile == "" {
		return pc, &pipeline.ConfigError{Key: key("region_file"), Reason: "required"}
	}

	if pc.Extract.Mode == "" {
		pc.Extract.Mode = "full"
	}
	mode, err := pipeline.ParseExtractMode(pc.Extract.Mode)
	if err != nil {
		return pc, &pipeline.ConfigError{Key: key("extract.mode"), Reason: fmt.Sprintf("unsupported value %q, want full or incremental", pc.Extract.Mode)}
	}
	if mode == pipeline.ExtractIncremental && pc.Extract.IncrementalColumn == "" {
		return pc, &pipeline.ConfigError{Key: key("extract.incremental_column"), Reason: "required in incremental mode"}
	}

	if pc.LoadMethod == "" {
		pc.LoadMethod = "upsert"
	}
	if _, err := pipeline.ParseLoadMethod(pc.LoadMethod); err != nil {
		return pc, &pipeline.ConfigError{Key: key("load_method"), Reason: fmt.Sprintf("unsupported value %q, want one of insert, upsert, overwrite", pc.LoadMethod)}
	}

	return pc, nil
}
