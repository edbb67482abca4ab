package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridianhq/meridian/internal/pipeline"
)

// resolveDateRange decides the date range to request from the API. Full
// extracts always use the configured range. Incremental extracts look up the
// maximum loaded value of the incremental column and request only the year
// after it. A missing or empty target table falls back to the full range.
func (e *Engine) resolveDateRange(ctx context.Context, logger *slog.Logger, spec PipelineSpec) (string, error) {
	if spec.ExtractMode == pipeline.ExtractFull {
		return spec.DateRange, nil
	}

	exists, err := e.db.TableExists(ctx, spec.Table)
	if err != nil {
		return "", fmt.Errorf("failed to check table %s: %w", spec.Table, err)
	}
	if !exists {
		logger.Info("target table not found, running full extract", slog.String("table", spec.Table))
		return spec.DateRange, nil
	}

	max, ok, err := e.db.MaxInt(ctx, spec.Table, spec.IncrementalColumn)
	if err != nil {
		return "", fmt.Errorf("failed to read watermark from %s.%s: %w", spec.Table, spec.IncrementalColumn, err)
	}
	if !ok {
		logger.Info("target table is empty, running full extract", slog.String("table", spec.Table))
		return spec.DateRange, nil
	}

	next := max + 1
	logger.Info("resolved incremental watermark",
		slog.Int64("max_loaded", max),
		slog.Int64("next", next))
	return fmt.Sprintf("%d:%d", next, next), nil
}
