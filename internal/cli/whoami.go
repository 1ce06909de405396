package cli

import (
	"context"
	"os"

	"github.com/critiq-dev/critiq-cli/internal/output"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		sess, ok := a.requireSession(context.Background())
		if !ok {
			return nil
		}
		if err := output.WriteUser(os.Stdout, a.cfg.Format, sess.User); err != nil {
			fail(err)
		}
		return nil
	},
}
