// Package storage handles catalog persistence in the formula text format,
// the backends that hold that text, and the SQLite query index.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/physform/internal/formula"
)

// Line markers of the catalog text format.
const (
	SectionMarker  = "@@@"
	EntryMarker    = "###"
	FieldSeparator = "|||"
)

// MaxLineCapacity is the maximum buffer size for a single catalog line.
const MaxLineCapacity = 1024 * 1024

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithStrictNames clears the pending entry name at every section marker and
// rejects data lines that have no entry name in their own section.
func WithStrictNames() ParseOption {
	return func(p *parser) {
		p.strict = true
	}
}

type lineKind int

const (
	blankLine lineKind = iota
	sectionLine
	entryLine
	dataLine
)

// parser is the decode state machine: the open section and the pending
// entry name register.
type parser struct {
	strict      bool
	catalog     *formula.Catalog
	section     *formula.Section
	pendingName string
	hasName     bool
}

func classify(line string) (lineKind, string) {
	switch {
	case line == "":
		return blankLine, ""
	case strings.HasPrefix(line, SectionMarker):
		return sectionLine, strings.TrimSpace(line[len(SectionMarker):])
	case strings.HasPrefix(line, EntryMarker):
		return entryLine, strings.TrimSpace(line[len(EntryMarker):])
	default:
		return dataLine, line
	}
}

// sectionName strips the one trailing colon Serialize writes after a name.
func sectionName(raw string) string {
	return strings.TrimSuffix(raw, ":")
}

func (p *parser) feed(lineNum int, raw string) error {
	kind, value := classify(strings.TrimSpace(raw))
	switch kind {
	case blankLine:
		return nil
	case sectionLine:
		p.section = formula.NewSection(sectionName(value))
		p.catalog.Put(p.section)
		if p.strict {
			p.pendingName, p.hasName = "", false
		}
		return nil
	case entryLine:
		p.pendingName, p.hasName = value, true
		return nil
	}

	if p.section == nil {
		return &ParseError{Line: lineNum, Reason: "data line before any section marker"}
	}
	if p.strict && !p.hasName {
		return &ParseError{Line: lineNum, Reason: "data line without a preceding entry name"}
	}
	if n := strings.Count(value, FieldSeparator); n != 1 {
		return &ParseError{Line: lineNum, Reason: fmt.Sprintf("expected exactly one %q separator, found %d", FieldSeparator, n)}
	}
	formulaText, description, _ := strings.Cut(value, FieldSeparator)
	p.section.Entries = append(p.section.Entries, formula.NewEntry(
		p.pendingName,
		strings.TrimSpace(formulaText),
		strings.TrimSpace(description),
	))
	return nil
}

// Parse decodes catalog text.
func Parse(r io.Reader, opts ...ParseOption) (*formula.Catalog, error) {
	p := &parser{catalog: formula.NewCatalog()}
	for _, opt := range opts {
		opt(p)
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := p.feed(lineNum, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return p.catalog, nil
}

// ParseString decodes catalog text held in a string.
func ParseString(s string, opts ...ParseOption) (*formula.Catalog, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Serialize encodes a catalog. Field text containing the separator or a
// leading line marker is written as is and will not decode back intact.
func Serialize(w io.Writer, c *formula.Catalog) error {
	bw := bufio.NewWriter(w)
	for _, s := range c.Sections() {
		if _, err := fmt.Fprintf(bw, "%s%s:\n", SectionMarker, s.Name); err != nil {
			return fmt.Errorf("writing section %q: %w", s.Name, err)
		}
		for _, e := range s.Entries {
			if _, err := fmt.Fprintf(bw, "%s %s\n%s%s%s\n", EntryMarker, e.Name, e.Formula, FieldSeparator, e.Description); err != nil {
				return fmt.Errorf("writing entry %q: %w", e.Name, err)
			}
		}
	}
	return bw.Flush()
}

// SerializeString encodes a catalog into a string.
func SerializeString(c *formula.Catalog) string {
	var sb strings.Builder
	_ = Serialize(&sb, c) // strings.Builder never fails
	return sb.String()
}
