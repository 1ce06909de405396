package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/critiq-dev/critiq-cli/internal/analysis"
	"github.com/critiq-dev/critiq-cli/internal/output"
	"github.com/spf13/cobra"
)

var flagSeverity string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repository-id>",
	Short: "Trigger an analysis run and open its results",
	Long: "Analyze asks the backend to review one repository. Whatever status the " +
		"trigger returns, the results view for the new analysis id opens; re-run " +
		"`critiq analysis show` to refresh a job that is still in progress.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid repository id %q\n", args[0])
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

		fmt.Fprintf(os.Stderr, "Starting analysis for repository %d...\n", repoID)
		route, err := a.flow.StartAnalysis(ctx, repoID)
		if err != nil {
			fail(err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Analysis #%d (%s)\n", route.AnalysisID, route.Status)

		job, err := a.flow.OpenAnalysis(ctx, route.AnalysisID)
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

// parseSeverityFlag validates --severity. Empty means "all".
func parseSeverityFlag() (analysis.Severity, bool) {
	if flagSeverity == "" {
		return analysis.SeverityAll, true
	}
	s := analysis.Severity(flagSeverity)
	if s != analysis.SeverityAll && !analysis.IsKnown(s) {
		fmt.Fprintf(os.Stderr, "Error: invalid severity %q (all, critical, high, medium, low)\n", flagSeverity)
		exitCode = ExitUsageError
		return "", false
	}
	return s, true
}

func init() {
	analyzeCmd.Flags().StringVar(&flagSeverity, "severity", "", "Only show issues of this severity (all, critical, high, medium, low)")
}
