package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/critiq-dev/critiq-cli/internal/handshake"
	"github.com/spf13/cobra"
)

var flagNoBrowser bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through the identity provider",
	Long: "Login asks the backend for the provider authorization URL, opens it in " +
		"your browser, and captures the redirect on a localhost listener. The " +
		"backend's registered OAuth callback must point at that listener address.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()

		a.establish(ctx)
		if sess, ok := a.session.Current(); ok {
			fmt.Fprintf(os.Stdout, "Already logged in as %s. Run `critiq logout` first to switch accounts.\n", sess.User.Username)
			return nil
		}

		controller := handshake.NewController(a.client, a.session)

		authURL, err := controller.Initiate(ctx)
		if err != nil {
			// Stay on the initiating side; the user can simply retry
			fail(err)
			return nil
		}

		listener, err := handshake.Listen(a.cfg.CallbackAddr)
		if err != nil {
			fail(err)
			return nil
		}
		defer listener.Close()

		if flagNoBrowser {
			fmt.Fprintf(os.Stderr, "Open this URL to sign in:\n\n  %s\n\n", authURL)
		} else {
			fmt.Fprintln(os.Stderr, "Opening your browser to sign in...")
			if err := handshake.OpenBrowser(authURL); err != nil {
				fmt.Fprintf(os.Stderr, "Could not open a browser. Open this URL yourself:\n\n  %s\n\n", authURL)
			}
		}
		fmt.Fprintf(os.Stderr, "Waiting for the provider redirect on %s ...\n", listener.RedirectURI())

		cb, err := listener.Wait(ctx)
		if err != nil {
			fail(err)
			return nil
		}

		user, err := controller.Complete(ctx, cb)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\nRun `critiq login` to try again.\n", err)
			exitCode = ExitAuthError
			return nil
		}

		fmt.Fprintf(os.Stdout, "Logged in as %s.\n", user.Username)

		// Populate the initial view state now that a session exists
		repos, err := a.flow.Refresh(ctx, 0, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load repositories: %v\n", err)
			return nil
		}
		if len(repos) == 0 {
			fmt.Fprintln(os.Stdout, "No repositories synced yet. Run: critiq repos sync")
		} else {
			fmt.Fprintf(os.Stdout, "%d repositories available. Run: critiq repos list\n", len(repos))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
}
