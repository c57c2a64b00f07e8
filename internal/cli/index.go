package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/godex-dev/godex/internal/client"
	"github.com/godex-dev/godex/internal/domain"
)

// indexTimeout covers synchronous embedding of a whole project or docs run.
const indexTimeout = 30 * time.Minute

var indexCollection string

var indexProjectCmd = &cobra.Command{
	Use:   "index-project <path>",
	Short: "Index a Godot project directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}

		collection := indexCollection
		if collection == "" {
			collection = domain.DefaultCollections[0]
		}

		stats, msg, err := apiClient(client.WithTimeout(indexTimeout)).
			IndexProject(cmd.Context(), path, collection)
		if err != nil {
			return err
		}

		fmt.Println(msg)
		printIndexStats(stats)
		return nil
	},
}

var indexDocsCmd = &cobra.Command{
	Use:   "index-docs <version>",
	Short: "Scrape and index the Godot class reference (e.g. 4.3, stable)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection := indexCollection
		if collection == "" {
			collection = domain.DefaultCollections[1]
		}

		stats, msg, err := apiClient(client.WithTimeout(indexTimeout)).
			IndexDocs(cmd.Context(), args[0], collection)
		if err != nil {
			return err
		}

		fmt.Println(msg)
		printIndexStats(stats)
		return nil
	},
}

func printIndexStats(s client.IndexStats) {
	if s.FilesIndexed > 0 || s.FilesSkipped > 0 {
		fmt.Printf("  files:  %d indexed, %d skipped\n", s.FilesIndexed, s.FilesSkipped)
	}
	if s.PagesFetched > 0 || s.PagesFailed > 0 {
		fmt.Printf("  pages:  %d fetched, %d failed\n", s.PagesFetched, s.PagesFailed)
	}
	fmt.Printf("  chunks: %d upserted\n", s.ChunksUpserted)
	fmt.Printf("  tokens: %d\n", s.TokensUsed)
	fmt.Printf("  took:   %.1fs\n", s.DurationSec)
}

func init() {
	indexProjectCmd.Flags().StringVarP(&indexCollection, "collection", "c", "",
		"target collection (default godot_game for projects, godot_docs for docs)")
	indexDocsCmd.Flags().StringVarP(&indexCollection, "collection", "c", "",
		"target collection (default godot_game for projects, godot_docs for docs)")
	rootCmd.AddCommand(indexProjectCmd)
	rootCmd.AddCommand(indexDocsCmd)
}
