package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/physform/internal/render"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <formula>",
	Short: "Print the image URL for a formula",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

// RenderResult is the response for the render command.
type RenderResult struct {
	Formula string `json:"formula"`
	URL     string `json:"url"`
}

func runRender(cmd *cobra.Command, args []string) error {
	root := mustFindLibrary()
	cfg := mustLoadConfig(root)

	f := strings.Join(args, " ")
	url, err := render.NewLaTeX(cfg.RenderURL, cfg.RenderDPI).ImageURL(f)
	if errors.Is(err, render.ErrEmptyFormula) {
		exitWithError(ExitError, "formula is empty")
	}
	if err != nil {
		exitWithError(ExitError, "rendering: %v", err)
	}

	if humanOutput {
		fmt.Println(url)
	} else {
		outputJSON(RenderResult{Formula: f, URL: url})
	}

	return nil
}
