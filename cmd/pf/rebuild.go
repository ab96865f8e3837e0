package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query index from the catalog",
	Long: `Rebuild the SQLite query index from the catalog.

Use this after editing the catalog by hand or pulling changes from git.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status   string `json:"status"`
	Sections int    `json:"sections"`
	Entries  int    `json:"entries"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root, _, store := mustOpenLibrary(ctx)

	db := mustOpenDatabase(root)
	defer db.Close()

	c := store.Catalog()
	count, err := db.RebuildFromCatalog(c)
	if err != nil {
		exitWithError(ExitError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d formulas in %d sections\n", count, c.Len())
	} else {
		outputJSON(RebuildResult{
			Status:   "rebuilt",
			Sections: c.Len(),
			Entries:  count,
		})
	}

	return nil
}
