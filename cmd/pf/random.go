package main

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/matsen/physform/internal/query"
	"github.com/spf13/cobra"
)

var (
	randomSeed uint64
	randomCopy bool
)

func init() {
	randomCmd.Flags().Uint64Var(&randomSeed, "seed", 0, "Seed for a reproducible pick (0 picks a random seed)")
	randomCmd.Flags().BoolVar(&randomCopy, "copy", false, "Copy the formula to the clipboard")
	rootCmd.AddCommand(randomCmd)
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random formula",
	Long: `Show a random formula.

A section is picked uniformly among sections that have formulas, then a
formula uniformly within it, so formulas in small sections come up more
often than formulas in large ones.`,
	Args: cobra.NoArgs,
	RunE: runRandom,
}

func runRandom(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	_, _, store := mustOpenLibrary(ctx)

	var opts []query.Option
	if randomSeed != 0 {
		opts = append(opts, query.WithRand(rand.New(rand.NewPCG(randomSeed, randomSeed))))
	}

	m, err := query.NewEngine(store, opts...).Random()
	if errors.Is(err, query.ErrEmptyCatalog) {
		exitWithError(ExitNotFound, "the catalog has no formulas")
	}
	if err != nil {
		exitWithError(ExitError, "picking a formula: %v", err)
	}

	result := entryResult(m)
	if randomCopy {
		copyFormula(result)
	}
	if humanOutput {
		printEntryHuman(result)
	} else {
		outputJSON(result)
	}

	return nil
}
