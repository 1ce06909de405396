package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/critiq-dev/critiq-cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagSkip  int
	flagLimit int
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Work with your synced repositories",
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List synced repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if _, ok := a.requireSession(ctx); !ok {
			return nil
		}

		repos, err := a.flow.Refresh(ctx, flagSkip, flagLimit)
		if err != nil {
			fail(err)
			return nil
		}
		if err := output.WriteRepositories(os.Stdout, a.cfg.Format, repos); err != nil {
			fail(err)
		}
		return nil
	},
}

var reposSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-import repositories from the provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if _, ok := a.requireSession(ctx); !ok {
			return nil
		}

		fmt.Fprintln(os.Stderr, "Syncing repositories...")
		result, err := a.flow.Sync(ctx)
		if err != nil {
			fail(err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Synced %d of %d repositories.\n", result.SyncedCount, result.TotalCount)
		if err := output.WriteRepositories(os.Stdout, a.cfg.Format, result.Repositories); err != nil {
			fail(err)
		}
		return nil
	},
}

var reposStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the repository summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if _, ok := a.requireSession(ctx); !ok {
			return nil
		}

		stats, err := a.client.FetchRepositoryStats(ctx)
		if err != nil {
			fail(err)
			return nil
		}
		if err := output.WriteStats(os.Stdout, a.cfg.Format, *stats); err != nil {
			fail(err)
		}
		return nil
	},
}

func init() {
	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposSyncCmd)
	reposCmd.AddCommand(reposStatsCmd)

	reposListCmd.Flags().IntVar(&flagSkip, "skip", 0, "Number of repositories to skip")
	reposListCmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum repositories to return")
}
