package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/physform/internal/clipboard"
	"github.com/matsen/physform/internal/query"
)

// DefaultSearchLimit is the default limit for search commands.
const DefaultSearchLimit = 50

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// MutationResponse reports a change to the catalog.
type MutationResponse struct {
	Status  string `json:"status"`
	Section string `json:"section"`
	Name    string `json:"name,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EntryResult is one formula in command output.
type EntryResult struct {
	Section     string `json:"section"`
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
}

func entryResult(m query.Match) EntryResult {
	return EntryResult{
		Section:     m.Section,
		Name:        m.Entry.Name,
		Formula:     m.Entry.Formula,
		Description: m.Entry.Description,
	}
}

func entryResults(matches []query.Match) []EntryResult {
	out := make([]EntryResult, len(matches))
	for i, m := range matches {
		out[i] = entryResult(m)
	}
	return out
}

// printEntryHuman prints one formula in human-readable format.
func printEntryHuman(r EntryResult) {
	fmt.Printf("[%s] %s\n", r.Section, r.Name)
	fmt.Printf("    %s\n", r.Formula)
	if r.Description != "" {
		fmt.Printf("    %s\n", r.Description)
	}
	fmt.Println()
}

// copyFormula puts the formula text on the clipboard. Failure is reported
// on stderr but does not fail the command.
func copyFormula(r EntryResult) {
	c := clipboard.New()
	if !c.Available() {
		fmt.Fprintln(os.Stderr, "warning: no clipboard tool found (install wl-copy, xclip or xsel)")
		return
	}
	if err := c.Copy(r.Formula); err != nil {
		fmt.Fprintf(os.Stderr, "warning: copying to clipboard: %v\n", err)
	}
}
