package main

import (
	"github.com/matsen/physform/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set library configuration values",
	Long: `Get or set library configuration values.

Usage:
  pf config get                           # Show all config
  pf config get backend                   # Get specific value
  pf config set backend s3                # Store the catalog in S3
  pf config set s3.bucket my-formulas
  pf config set render_dpi 300

Keys:
  backend        Catalog backend (file, s3)
  s3.bucket      Bucket holding the catalog object
  s3.key         Object key (default formulas.txt)
  s3.region      Bucket region
  s3.endpoint    Custom endpoint for S3-compatible servers
  s3.path_style  Use path-style addressing (true, false)
  render_url     LaTeX image service base URL
  render_dpi     Image resolution`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ValueResponse is the response for reading one config key.
type ValueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	root := mustFindLibrary()
	cfg := mustLoadConfig(root)

	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys {
				value, _ := cfg.Get(key)
				outputHuman("%-14s %s\n", key, value)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	value, err := cfg.Get(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		outputHuman("%s\n", value)
	} else {
		outputJSON(ValueResponse{Key: args[0], Value: value})
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	root := mustFindLibrary()
	cfg := mustLoadConfig(root)

	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
