package commands

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meridianhq/meridian/internal/state"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Select string
	Jobs   int
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all pipelines or specific pipelines",
		Long: `Extract, transform and load the configured indicator pipelines.

By default, runs every pipeline defined in the config. Use --select to run
specific pipelines. Each run is recorded in the run-metadata store.`,
		Example: `  # Run all pipelines
  meridian run

  # Run specific pipelines
  meridian run --select unemployment,gdp_per_capita

  # Run up to four pipelines concurrently
  meridian run --jobs 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Select, "select", "s", "", "Comma-separated list of pipelines to run")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 1, "Number of pipelines to run concurrently")

	return cmd
}

type pipelineResult struct {
	name string
	run  *state.Run
	err  error
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cfg := getConfig()
	logger := getLogger(cmd)

	var names []string
	if opts.Select != "" {
		for _, name := range strings.Split(opts.Select, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	specs, err := selectSpecs(cfg, names)
	if err != nil {
		return err
	}

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	start := time.Now()
	results := make([]pipelineResult, len(specs))

	// One failed pipeline must not cancel the others, so errors are collected
	// per pipeline instead of propagated through the group.
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, spec := range specs {
		g.Go(func() error {
			run, runErr := eng.RunPipeline(cmd.Context(), spec)
			mu.Lock()
			results[i] = pipelineResult{name: spec.Name, run: run, err: runErr}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL  %s: %v\n", res.name, res.err)
			continue
		}
		fmt.Fprintf(out, "OK    %s: %d rows loaded, %d dropped\n",
			res.name, res.run.RowsLoaded, res.run.RowsDropped)
	}
	fmt.Fprintf(out, "\n%d pipeline(s) in %s\n", len(specs), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d pipeline(s) failed", failed, len(specs))
	}
	return nil
}
