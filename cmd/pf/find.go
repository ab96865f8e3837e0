package main

import (
	"context"
	"strings"

	"github.com/matsen/physform/internal/query"
	"github.com/spf13/cobra"
)

var findCopy bool

func init() {
	findCmd.Flags().BoolVar(&findCopy, "copy", false, "Copy the formula to the clipboard")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find <text>",
	Short: "Show the first formula whose name or description matches",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	_, _, store := mustOpenLibrary(ctx)

	q := strings.Join(args, " ")
	m, ok := query.NewEngine(store).FindFirst(q)
	if !ok {
		exitWithError(ExitNotFound, "no formula matches %q", q)
	}

	result := entryResult(m)
	if findCopy {
		copyFormula(result)
	}
	if humanOutput {
		printEntryHuman(result)
	} else {
		outputJSON(result)
	}

	return nil
}
