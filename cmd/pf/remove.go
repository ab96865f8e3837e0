package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/physform/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <section> <name>",
	Short: "Remove a formula from a section",
	Long: `Remove the first formula in the section whose name matches,
ignoring case.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root, backend, store := mustOpenLibrary(ctx)

	section, name := args[0], strings.Join(args[1:], " ")
	if err := store.RemoveEntry(section, name); err != nil {
		switch {
		case errors.Is(err, catalog.ErrSectionNotFound):
			exitWithError(ExitNotFound, "section %q not found", section)
		case errors.Is(err, catalog.ErrEntryNotFound):
			exitWithError(ExitNotFound, "formula %q not found in section %q", name, section)
		}
		exitWithError(ExitError, "removing formula: %v", err)
	}
	mustSave(ctx, root, backend, store)

	if humanOutput {
		fmt.Printf("Removed %s from %s\n", name, section)
	} else {
		outputJSON(MutationResponse{Status: "removed", Section: section, Name: name})
	}

	return nil
}
