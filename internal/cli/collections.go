package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

var listCollectionsCmd = &cobra.Command{
	Use:   "list-collections",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := apiClient().Collections(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no collections")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var createCollectionCmd = &cobra.Command{
	Use:   "create-collection <name>",
	Short: "Create an empty collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().CreateCollection(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("collection %s created\n", args[0])
		return nil
	},
}

var deleteCollectionCmd = &cobra.Command{
	Use:   "delete-collection <name>",
	Short: "Delete a collection and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !deleteYes && !confirm(cmd, fmt.Sprintf("Delete collection %q and all its data?", name)) {
			fmt.Println("aborted")
			return nil
		}
		if err := apiClient().DeleteCollection(cmd.Context(), name); err != nil {
			return err
		}
		fmt.Printf("collection %s deleted\n", name)
		return nil
	},
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	deleteCollectionCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false,
		"skip the confirmation prompt")
	rootCmd.AddCommand(listCollectionsCmd)
	rootCmd.AddCommand(createCollectionCmd)
	rootCmd.AddCommand(deleteCollectionCmd)
}
