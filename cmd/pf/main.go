// Package main provides the pf CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/physform/internal/catalog"
	"github.com/matsen/physform/internal/config"
	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/storage"
	"github.com/matsen/physform/internal/storage/s3"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pf",
	Short: "Physics formula catalog",
	Long: `pf manages a catalog of physics formulas grouped into sections.

The catalog is a plain text file (.physform/formulas.txt by default, or an
S3 object) with an ephemeral SQLite index for full-text queries. The same
catalog can be served to Telegram with 'pf bot'. All commands output JSON
by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for TELEGRAM_BOT_TOKEN and S3 credentials)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a library.
// Checks PF_ROOT, then the global library_path, then the working directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("PF_ROOT"); root != "" {
		return root, 0
	}
	if root := config.GetLibraryPath(); root != "" {
		return config.ExpandPath(root), 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindLibrary finds and validates the library, exits on error.
// Returns the library root path.
func mustFindLibrary() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindLibrary(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenBackend returns the backend selected in the library config.
func mustOpenBackend(ctx context.Context, root string, cfg *config.Config) storage.Backend {
	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewFileBackend(config.CatalogPath(root))
	case config.BackendS3:
		store, err := s3.New(ctx, s3.ConfigFromEnv(s3.Config{
			Bucket:    cfg.S3.Bucket,
			Key:       cfg.S3.Key,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		}))
		if err != nil {
			exitWithError(ExitConfigError, "opening s3 backend: %v", err)
		}
		return store
	}
	exitWithError(ExitConfigError, "invalid backend: %s", cfg.Backend)
	return nil
}

// mustLoadStore reads the catalog into a store, exits on error.
// Malformed catalogs exit with ExitDataError.
func mustLoadStore(ctx context.Context, backend storage.Backend, opts ...storage.ParseOption) *catalog.Store {
	c, err := storage.Load(ctx, backend, opts...)
	if err != nil {
		if storage.IsMalformed(err) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "loading catalog: %v", err)
	}
	return catalog.NewStore(c)
}

// mustOpenLibrary resolves the library and loads its catalog.
func mustOpenLibrary(ctx context.Context) (string, storage.Backend, *catalog.Store) {
	root := mustFindLibrary()
	cfg := mustLoadConfig(root)
	backend := mustOpenBackend(ctx, root, cfg)
	return root, backend, mustLoadStore(ctx, backend)
}

// mustSave writes the store back when it has changes, exits on error.
// An existing query index is rebuilt so --fts sees the change.
func mustSave(ctx context.Context, root string, backend storage.Backend, store *catalog.Store) {
	if !store.Dirty() {
		return
	}
	c := store.Catalog()
	if err := storage.Save(ctx, backend, c); err != nil {
		exitWithError(ExitError, "saving catalog: %v", err)
	}
	store.MarkSaved()

	if err := refreshIndex(root, c); err != nil {
		fmt.Fprintf(os.Stderr, "warning: updating query index: %v (run 'pf rebuild')\n", err)
	}
}

// refreshIndex rebuilds the query index from c if the index exists.
// A missing index is left for the first 'pf search --fts' to build.
func refreshIndex(root string, c *formula.Catalog) error {
	if _, err := os.Stat(config.DBPath(root)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.RebuildFromCatalog(c)
	return err
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
