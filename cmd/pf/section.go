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
	rootCmd.AddCommand(addSectionCmd)
	rootCmd.AddCommand(removeSectionCmd)
}

var addSectionCmd = &cobra.Command{
	Use:   "add-section <name>",
	Short: "Add an empty section",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddSection,
}

var removeSectionCmd = &cobra.Command{
	Use:   "remove-section <name>",
	Short: "Remove a section and all of its formulas",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemoveSection,
}

func runAddSection(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root, backend, store := mustOpenLibrary(ctx)

	name := strings.TrimSpace(strings.Join(args, " "))
	if err := store.AddSection(name); err != nil {
		switch {
		case errors.Is(err, catalog.ErrEmptyName):
			exitWithError(ExitError, "section name is empty")
		case errors.Is(err, catalog.ErrDuplicateSection):
			exitWithError(ExitDataError, "section %q already exists", name)
		case errors.Is(err, catalog.ErrInvalidText):
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "adding section: %v", err)
	}
	mustSave(ctx, root, backend, store)

	if humanOutput {
		fmt.Printf("Added section %s\n", name)
	} else {
		outputJSON(MutationResponse{Status: "added", Section: name})
	}

	return nil
}

func runRemoveSection(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root, backend, store := mustOpenLibrary(ctx)

	name := strings.TrimSpace(strings.Join(args, " "))
	if err := store.RemoveSection(name); err != nil {
		if errors.Is(err, catalog.ErrSectionNotFound) {
			exitWithError(ExitNotFound, "section %q not found", name)
		}
		exitWithError(ExitError, "removing section: %v", err)
	}
	mustSave(ctx, root, backend, store)

	if humanOutput {
		fmt.Printf("Removed section %s\n", name)
	} else {
		outputJSON(MutationResponse{Status: "removed", Section: name})
	}

	return nil
}
