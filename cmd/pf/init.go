package main

import (
	"fmt"
	"os"

	"github.com/matsen/physform/internal/config"
	"github.com/spf13/cobra"
)

var initBackend string

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendFile, "Catalog backend (file, s3)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new formula library",
	Long: `Initialize a new formula library in the current directory.

Creates:
  .physform/
  ├── formulas.txt    # Empty catalog (file backend only)
  ├── config.json     # Default config
  └── cache/          # SQLite index (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	if env := os.Getenv("PF_ROOT"); env != "" {
		root = env
	}

	if err := config.ValidateBackend(initBackend); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if config.IsLibrary(root) {
		exitWithError(ExitError, "directory already contains a formula library")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating %s directory: %v", config.LibraryDir, err)
	}

	if initBackend == config.BackendFile {
		f, err := os.Create(config.CatalogPath(root))
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", config.CatalogFile, err)
		}
		f.Close()
	}

	cfg := config.Default()
	cfg.Backend = initBackend
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.ConfigFile, err)
	}

	if humanOutput {
		fmt.Printf("Initialized formula library in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
