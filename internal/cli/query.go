package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/assemble"
	"github.com/godex-dev/godex/internal/clipboard"
	"github.com/godex-dev/godex/internal/domain"
	"github.com/godex-dev/godex/internal/orchestrator"
)

var (
	queryCollections []string
	queryLimit       int
	queryRules       bool
	queryNoCopy      bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Retrieve context for a prompt and copy it to the clipboard",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := domain.Query{
			Text:         strings.Join(args, " "),
			Collections:  queryCollections,
			IncludeRules: queryRules,
		}
		if len(q.Collections) == 0 {
			q.Collections = domain.DefaultCollections
		}

		var clip orchestrator.Clipboard
		if !queryNoCopy {
			clip = clipboard.System{}
		}

		orch := orchestrator.New(apiClient(), clip, zap.NewNop(),
			orchestrator.WithLimit(queryLimit))

		bundle, err := orch.Submit(cmd.Context(), q)
		if err != nil {
			return err
		}

		fmt.Print(assemble.Serialize(bundle))

		if notice := orch.State().Notice; notice != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", notice.Severity, notice.Text)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringSliceVarP(&queryCollections, "collections", "c", nil,
		"collections to search (default godot_game,godot_docs)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "l", domain.DefaultQueryLimit,
		"max results per collection")
	queryCmd.Flags().BoolVarP(&queryRules, "rules", "r", false,
		"attach the uploaded project rules to the context")
	queryCmd.Flags().BoolVar(&queryNoCopy, "no-copy", false,
		"print only, skip the clipboard export")
	rootCmd.AddCommand(queryCmd)
}
