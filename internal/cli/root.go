// Package cli wires the godex commands: the API server plus the client-side
// commands that talk to it.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/godex-dev/godex/internal/client"
	"github.com/godex-dev/godex/internal/version"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "godex",
	Short: "Godot context retrieval for LLM prompts",
	Long: "godex indexes Godot project files and engine docs into a vector " +
		"database and retrieves relevant context for LLM prompts.",
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Best effort: a missing .env is the normal case outside dev.
		_ = godotenv.Load()
		if serverURL == "" {
			serverURL = client.BaseURLFromEnv()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"godex server URL (default $GODEX_SERVER_URL or "+client.DefaultBaseURL+")")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func apiClient(opts ...client.Option) *client.Client {
	return client.New(serverURL, opts...)
}
