package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := apiClient().Health(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("server: %s (%s)\n", serverURL, report.Status)

		names := make([]string, 0, len(report.Checks))
		for name := range report.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-10s %s\n", name, report.Checks[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
