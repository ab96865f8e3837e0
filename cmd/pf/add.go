package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/physform/internal/catalog"
	"github.com/matsen/physform/internal/formula"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <section> <name> <formula> <description...>",
	Short: "Add a formula to a section",
	Long: `Add a formula to an existing section.

Words after the formula are joined into the description.

Examples:
  pf add Mechanics "Newton's second law" "F=ma" force equals mass times acceleration`,
	Args: cobra.MinimumNArgs(4),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root, backend, store := mustOpenLibrary(ctx)

	section := args[0]
	entry := formula.NewEntry(args[1], args[2], strings.Join(args[3:], " "))
	if err := store.AddEntry(section, entry); err != nil {
		switch {
		case errors.Is(err, catalog.ErrSectionNotFound):
			exitWithError(ExitNotFound, "section %q not found; add it first with 'pf add-section'", section)
		case errors.Is(err, catalog.ErrInvalidText):
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "adding formula: %v", err)
	}
	mustSave(ctx, root, backend, store)

	name := strings.TrimSpace(entry.Name)
	if humanOutput {
		fmt.Printf("Added %s to %s\n", name, section)
	} else {
		outputJSON(MutationResponse{Status: "added", Section: section, Name: name})
	}

	return nil
}
