package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridianhq/meridian/internal/logging"
	"github.com/meridianhq/meridian/internal/pipeline"
	"github.com/meridianhq/meridian/internal/region"
	"github.com/meridianhq/meridian/internal/state"
	"github.com/meridianhq/meridian/internal/transform"
	"github.com/meridianhq/meridian/internal/worldbank"
)

type runSummary struct {
	loaded  int64
	dropped int64
}

// RunPipeline executes one pipeline end to end and records the run in the
// state store. The returned run reflects the final persisted state; the error
// is non-nil when any stage failed.
func (e *Engine) RunPipeline(ctx context.Context, spec PipelineSpec) (*state.Run, error) {
	capture := logging.NewCapture(e.logger.Handler())
	logger := slog.New(capture).With(slog.String("pipeline", spec.Name))

	run, err := e.store.CreateRun(spec.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	logger.Info("run started", slog.String("run_id", run.ID))

	summary, runErr := e.execute(ctx, logger, spec)

	result := state.RunResult{
		Status:      state.RunStatusSuccess,
		RowsLoaded:  summary.loaded,
		RowsDropped: summary.dropped,
	}
	if runErr != nil {
		logger.Error("run failed", slog.String("error", runErr.Error()))
		result.Status = state.RunStatusFailure
		result.Error = runErr.Error()
	} else {
		logger.Info("run completed",
			slog.Int64("rows_loaded", summary.loaded),
			slog.Int64("rows_dropped", summary.dropped))
	}
	result.LogText = capture.Logs()

	if err := e.store.CompleteRun(run.ID, result); err != nil {
		e.logger.Error("failed to record run result", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}

	final, err := e.store.GetRun(run.ID)
	if err != nil {
		return run, runErr
	}
	return final, runErr
}

func (e *Engine) execute(ctx context.Context, logger *slog.Logger, spec PipelineSpec) (runSummary, error) {
	var summary runSummary

	if err := e.ensureDBConnected(ctx); err != nil {
		return summary, err
	}

	dateRange, err := e.resolveDateRange(ctx, logger, spec)
	if err != nil {
		return summary, err
	}

	logger.Info("starting extract",
		slog.String("indicator", spec.Indicator),
		slog.String("date_range", dateRange))

	records, err := e.client.Fetch(ctx, spec.Indicator, dateRange, worldbank.FetchOptions{})
	if err != nil {
		return summary, err
	}
	logger.Info("extract completed", slog.Int("records", len(records)))

	if len(records) == 0 {
		// Nothing new: the base table and any derived table are unchanged.
		logger.Info("no new observations, nothing to load")
		return summary, nil
	}

	rows, err := pipeline.Normalize(records, pipeline.NormalizeOptions{Countries: spec.Countries})
	if err != nil {
		return summary, err
	}

	ref, err := region.Load(spec.RegionFile)
	if err != nil {
		return summary, err
	}

	enriched, dropped := pipeline.Enrich(rows, ref)
	summary.dropped = int64(dropped)
	if dropped > 0 {
		logger.Warn("dropped rows without region mapping", slog.Int("rows", dropped))
	}

	var loaded int64
	switch spec.LoadMethod {
	case pipeline.LoadUpsert:
		loaded, err = e.db.Upsert(ctx, spec.Table, pipeline.Deduplicate(enriched))
	case pipeline.LoadInsert:
		loaded, err = e.db.Insert(ctx, spec.Table, enriched)
	case pipeline.LoadOverwrite:
		loaded, err = e.db.Overwrite(ctx, spec.Table, enriched)
	default:
		err = &pipeline.ConfigError{Key: "load_method", Reason: fmt.Sprintf("unsupported load method %q", spec.LoadMethod)}
	}
	if err != nil {
		return summary, err
	}
	summary.loaded = loaded
	logger.Info("load completed",
		slog.String("table", spec.Table),
		slog.String("method", spec.LoadMethod.String()),
		slog.Int64("rows", loaded))

	if spec.DerivedTable != "" {
		// The base load is already committed; a derived failure fails the
		// run but leaves the base table in place.
		if err := transform.Recompute(ctx, e.db, e.sqlDir, spec.DerivedTable, spec.Table, logger); err != nil {
			return summary, err
		}
	}

	return summary, nil
}
