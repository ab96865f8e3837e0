// Package clipboard copies formula text to the desktop clipboard through
// whichever copy tool the system provides.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no copy tool is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// tool is one candidate copy command.
type tool struct {
	name string
	args []string
}

// candidates lists copy tools per OS in order of preference.
var candidates = map[string][]tool{
	"darwin": {{name: "pbcopy"}},
	"linux": {
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
}

// Copier writes text to the clipboard.
type Copier struct {
	goos     string
	lookPath func(string) (string, error)
}

// New returns a Copier for the running system.
func New() *Copier {
	return &Copier{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// command returns the first installed tool for the copier's OS.
func (c *Copier) command() (tool, error) {
	for _, t := range candidates[c.goos] {
		if _, err := c.lookPath(t.name); err == nil {
			return t, nil
		}
	}
	return tool{}, ErrUnavailable
}

// Available reports whether a copy tool is installed.
func (c *Copier) Available() bool {
	_, err := c.command()
	return err == nil
}

// Copy replaces the clipboard contents with text.
func (c *Copier) Copy(text string) error {
	t, err := c.command()
	if err != nil {
		return err
	}
	cmd := exec.Command(t.name, t.args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
