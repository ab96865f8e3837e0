package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/physform/internal/config"
	"github.com/matsen/physform/internal/query"
	"github.com/matsen/physform/internal/storage"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchFTS   bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().BoolVar(&searchFTS, "fts", false, "Full-text search over names, formulas, descriptions and sections")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search formulas by name",
	Long: `Search formulas by name.

By default the query is matched case-insensitively as a substring of each
formula name, in catalog order. With --fts the SQLite index is queried
instead, matching every word against all fields.

Examples:
  pf search newton
  pf search --fts "kinetic energy"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	q := strings.Join(args, " ")

	var results []EntryResult
	if searchFTS {
		results = searchIndex(ctx, q)
	} else {
		_, _, store := mustOpenLibrary(ctx)
		results = entryResults(query.NewEngine(store).Search(q))
	}

	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No formulas found")
		} else {
			fmt.Printf("Found %d formulas:\n\n", len(results))
			for _, r := range results {
				printEntryHuman(r)
			}
		}
	} else {
		outputJSON(results)
	}

	return nil
}

// searchIndex queries the SQLite index, building it first if it does not
// exist yet.
func searchIndex(ctx context.Context, q string) []EntryResult {
	root := mustFindLibrary()
	_, statErr := os.Stat(config.DBPath(root))

	db := mustOpenDatabase(root)
	defer db.Close()

	if os.IsNotExist(statErr) {
		cfg := mustLoadConfig(root)
		store := mustLoadStore(ctx, mustOpenBackend(ctx, root, cfg))
		if _, err := db.RebuildFromCatalog(store.Catalog()); err != nil {
			exitWithError(ExitError, "building index: %v", err)
		}
	}

	entries, err := db.Search(q, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	results := make([]EntryResult, len(entries))
	for i, e := range entries {
		results[i] = indexedResult(e)
	}
	return results
}

func indexedResult(e storage.IndexedEntry) EntryResult {
	return EntryResult{
		Section:     e.Section,
		Name:        e.Name,
		Formula:     e.Formula,
		Description: e.Description,
	}
}
