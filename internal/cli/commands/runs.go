package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/meridianhq/meridian/internal/state"
	"github.com/spf13/cobra"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
	Logs  string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent pipeline runs",
		Long: `List recent pipeline runs from the run-metadata store, newest first.

Use --logs with a run ID to print the captured log text of a single run.`,
		Example: `  # Show the 20 most recent runs
  meridian runs

  # Show the 5 most recent runs
  meridian runs --limit 5

  # Print the captured logs of one run (short ID from the table works)
  meridian runs --logs 6f1c9a0e`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&opts.Logs, "logs", "", "Print the log text of the run with this ID (a unique prefix works)")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions) error {
	cfg := getConfig()
	logger := getLogger(cmd)

	// The engine opens and migrates the run-metadata store; the warehouse
	// connection stays closed because nothing here touches it.
	eng, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()
	store := eng.Store()

	out := cmd.OutOrStdout()

	if opts.Logs != "" {
		run, err := store.GetRun(opts.Logs)
		if err != nil {
			return err
		}
		fmt.Fprint(out, run.LogText)
		return nil
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Pipeline", "Status", "Started", "Duration", "Loaded", "Dropped"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.Pipeline,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
			run.RowsLoaded,
			run.RowsDropped,
		})
	}
	t.Render()

	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run *state.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
