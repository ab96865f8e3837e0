package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every section and its formula names",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	_, _, store := mustOpenLibrary(ctx)

	listing := store.ListAll()

	if humanOutput {
		if len(listing) == 0 {
			fmt.Println("The catalog is empty")
		}
		for _, l := range listing {
			fmt.Printf("%s (%d)\n", l.Section, len(l.Entries))
			for _, name := range l.Entries {
				fmt.Printf("  - %s\n", name)
			}
		}
	} else {
		outputJSON(listing)
	}

	return nil
}
