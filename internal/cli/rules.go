package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadRulesCmd = &cobra.Command{
	Use:   "upload-rules <file>",
	Short: "Upload a project rules document to attach to queries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read rules file: %w", err)
		}

		if err := apiClient().UploadRules(cmd.Context(), filepath.Base(args[0]), content); err != nil {
			return err
		}
		fmt.Println("project rules uploaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadRulesCmd)
}
