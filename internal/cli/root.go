// Package cli implements the critiq command surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes. Deterministic so scripts and hooks can branch on them.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// Shared flags
var (
	flagBaseURL string
	flagFormat  string
	flagVerbose bool
	flagTimeout int
)

var rootCmd = &cobra.Command{
	Use:   "critiq",
	Short: "Terminal client for the Critiq code-review service",
	Long:  "Critiq signs you in to the hosted code-review service, syncs your repositories, and triggers and inspects AI analysis runs.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable diagnostic logging")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print critiq version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "critiq version %s\n", version)
	},
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagBaseURL != "" {
		m["base_url"] = flagBaseURL
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagTimeout > 0 {
		m["timeout_seconds"] = fmt.Sprintf("%d", flagTimeout)
	}
	if flagVerbose {
		m["verbose"] = "true"
	}
	return m
}
