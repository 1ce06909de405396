package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/critiq-dev/critiq-cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagAnalysisSkip  int
	flagAnalysisLimit int
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Inspect analysis runs",
}

var analysisShowCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Show one analysis run and its issues",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysisID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid analysis id %q\n", args[0])
			exitCode = ExitUsageError
			return nil
		}

		severity, ok := parseSeverityFlag()
		if !ok {
			return nil
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if _, sessionOK := a.requireSession(ctx); !sessionOK {
			return nil
		}

		job, err := a.flow.OpenAnalysis(ctx, analysisID)
		if err != nil {
			fail(err)
			return nil
		}
		if err := output.WriteAnalysis(os.Stdout, a.cfg.Format, job, severity); err != nil {
			fail(err)
		}
		return nil
	},
}

var analysisListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if _, ok := a.requireSession(ctx); !ok {
			return nil
		}

		runs, err := a.flow.History(ctx, flagAnalysisSkip, flagAnalysisLimit)
		if err != nil {
			fail(err)
			return nil
		}
		if err := output.WriteAnalysisList(os.Stdout, a.cfg.Format, runs); err != nil {
			fail(err)
		}
		return nil
	},
}

func init() {
	analysisCmd.AddCommand(analysisShowCmd)
	analysisCmd.AddCommand(analysisListCmd)

	analysisShowCmd.Flags().StringVar(&flagSeverity, "severity", "", "Only show issues of this severity (all, critical, high, medium, low)")
	analysisListCmd.Flags().IntVar(&flagAnalysisSkip, "skip", 0, "Number of runs to skip")
	analysisListCmd.Flags().IntVar(&flagAnalysisLimit, "limit", 0, "Maximum runs to return")
}
