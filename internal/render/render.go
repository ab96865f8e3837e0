// Package render turns formula text into an image the chat can display.
package render

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the LaTeX rendering service used when none is configured.
const DefaultBaseURL = "https://latex.codecogs.com/png.image?"

// DefaultDPI gives images legible at chat-preview size.
const DefaultDPI = 200

// ErrEmptyFormula indicates there is nothing to render.
var ErrEmptyFormula = errors.New("empty formula")

// Renderer produces an image location for a formula.
type Renderer interface {
	ImageURL(formula string) (string, error)
}

// LaTeX renders through a service that takes LaTeX source in the query string.
type LaTeX struct {
	BaseURL string
	DPI     int
}

// NewLaTeX returns a renderer, falling back to defaults for zero values.
func NewLaTeX(baseURL string, dpi int) *LaTeX {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &LaTeX{BaseURL: baseURL, DPI: dpi}
}

// ImageURL returns the URL of a PNG rendering of formula.
func (l *LaTeX) ImageURL(formula string) (string, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return "", ErrEmptyFormula
	}
	src := fmt.Sprintf(`\dpi{%d}\bg{white}%s`, l.DPI, formula)
	return l.BaseURL + url.PathEscape(src), nil
}
