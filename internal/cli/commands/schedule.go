package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// ScheduleOptions holds options for the schedule command.
type ScheduleOptions struct {
	Every time.Duration
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand() *cobra.Command {
	opts := &ScheduleOptions{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run all pipelines on a fixed interval",
		Long: `Run every configured pipeline immediately and then again on a fixed
interval, until interrupted. The interval comes from schedule.every in the
config and can be overridden with --every.`,
		Example: `  # Run all pipelines every hour (the default)
  meridian schedule

  # Run all pipelines every 15 minutes
  meridian schedule --every 15m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Every, "every", 0, "Interval between runs (default from config)")

	return cmd
}

func runSchedule(cmd *cobra.Command, opts *ScheduleOptions) error {
	cfg := getConfig()
	logger := getLogger(cmd)

	every := opts.Every
	if every == 0 {
		every = cfg.Schedule.Every
	}
	if every <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %s", every)
	}

	specs, err := selectSpecs(cfg, nil)
	if err != nil {
		return err
	}

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("scheduler started",
		slog.Duration("every", every),
		slog.Int("pipelines", len(specs)))

	runOnce := func() {
		for _, spec := range specs {
			if ctx.Err() != nil {
				return
			}
			if _, err := eng.RunPipeline(ctx, spec); err != nil {
				logger.Error("scheduled run failed",
					slog.String("pipeline", spec.Name),
					slog.String("error", err.Error()))
			}
		}
	}

	runOnce()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			runOnce()
		}
	}
}
