package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()

		a.establish(ctx)
		if _, ok := a.session.Current(); !ok {
			// Still clear any leftover credential: Clear is idempotent
			_ = a.store.Clear()
			fmt.Fprintln(os.Stdout, "Not logged in.")
			return nil
		}

		// Backend logout is best-effort; the local session always ends
		if err := a.session.Logout(ctx); err != nil {
			fail(err)
			return nil
		}
		a.flow.Reset()
		fmt.Fprintln(os.Stdout, "Logged out.")
		return nil
	},
}
