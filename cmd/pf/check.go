package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/matsen/physform/internal/config"
	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/storage"
	"github.com/spf13/cobra"
)

var checkStrict bool

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", true, "Require every formula to follow its own ### name within its section")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the catalog file",
	Long: `Parse the catalog and report problems.

With --strict (the default) a formula line must be preceded by a ### name
in the same section. Without it, names carry over from earlier lines the
same way they do when the catalog is loaded.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Sections int    `json:"sections"`
	Entries  int    `json:"entries"`
	Index    string `json:"index"` // missing, current or stale
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindLibrary()
	cfg := mustLoadConfig(root)
	backend := mustOpenBackend(ctx, root, cfg)

	var opts []storage.ParseOption
	if checkStrict {
		opts = append(opts, storage.WithStrictNames())
	}
	store := mustLoadStore(ctx, backend, opts...)
	c := store.Catalog()

	result := CheckResult{
		Status:   "ok",
		Location: backend.Location(),
		Sections: c.Len(),
		Entries:  c.EntryCount(),
		Index:    indexStatus(root, c),
	}

	if humanOutput {
		fmt.Printf("%s: %d sections, %d formulas, no problems found\n", result.Location, result.Sections, result.Entries)
		fmt.Printf("query index: %s\n", result.Index)
	} else {
		outputJSON(result)
	}

	return nil
}

// indexStatus compares the query index with the catalog.
func indexStatus(root string, c *formula.Catalog) string {
	if _, err := os.Stat(config.DBPath(root)); err != nil {
		return "missing"
	}
	db := mustOpenDatabase(root)
	defer db.Close()

	n, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "reading index: %v", err)
	}
	names, err := db.Sections()
	if err != nil {
		exitWithError(ExitError, "reading index: %v", err)
	}
	if n != c.EntryCount() || !slices.Equal(names, c.Names()) {
		return "stale"
	}
	return "current"
}
