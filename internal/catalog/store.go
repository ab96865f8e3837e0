// Package catalog holds the in-memory formula catalog and its mutations.
//
// A Store is not safe for concurrent use. Hosts that run operations from
// several goroutines must serialize them behind one lock.
package catalog

import (
	"fmt"
	"strings"

	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/storage"
)

// Store owns the process-wide catalog between load and save.
type Store struct {
	catalog *formula.Catalog
	dirty   bool
}

// Listing is a snapshot of one section and the names of its entries.
type Listing struct {
	Section string   `json:"section"`
	Entries []string `json:"entries"`
}

// NewStore takes ownership of c. A nil catalog starts the store empty.
func NewStore(c *formula.Catalog) *Store {
	if c == nil {
		c = formula.NewCatalog()
	}
	return &Store{catalog: c}
}

// AddSection appends an empty section. The name is trimmed first.
func (s *Store) AddSection(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := checkText("section name", name); err != nil {
		return err
	}
	if _, ok := s.catalog.Lookup(name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSection, name)
	}
	s.catalog.Put(formula.NewSection(name))
	s.dirty = true
	return nil
}

// RemoveSection deletes a section with all of its entries. The name is
// trimmed first.
func (s *Store) RemoveSection(name string) error {
	name = strings.TrimSpace(name)
	if !s.catalog.Delete(name) {
		return fmt.Errorf("%w: %q", ErrSectionNotFound, name)
	}
	s.dirty = true
	return nil
}

// AddEntry appends an entry to an existing section. Fields are trimmed the
// same way decode trims them. Duplicate entry names are allowed.
func (s *Store) AddEntry(section string, e formula.Entry) error {
	e = formula.NewEntry(
		strings.TrimSpace(e.Name),
		strings.TrimSpace(e.Formula),
		strings.TrimSpace(e.Description),
	)
	for _, f := range []struct{ field, text string }{
		{"name", e.Name},
		{"formula", e.Formula},
		{"description", e.Description},
	} {
		if err := checkText(f.field, f.text); err != nil {
			return err
		}
	}
	if strings.HasPrefix(e.Formula, storage.SectionMarker) || strings.HasPrefix(e.Formula, storage.EntryMarker) {
		return fmt.Errorf("%w: formula starts with a line marker", ErrInvalidText)
	}

	sec, ok := s.catalog.Lookup(section)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}
	sec.Entries = append(sec.Entries, e)
	s.dirty = true
	return nil
}

// RemoveEntry removes the first entry in the section whose name matches
// case-insensitively.
func (s *Store) RemoveEntry(section, name string) error {
	sec, ok := s.catalog.Lookup(section)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}
	for i, e := range sec.Entries {
		if strings.EqualFold(e.Name, name) {
			sec.Entries = append(sec.Entries[:i:i], sec.Entries[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("%w: %q in section %q", ErrEntryNotFound, name, section)
}

// ListAll returns every section name with its entry names, in catalog order.
func (s *Store) ListAll() []Listing {
	sections := s.catalog.Sections()
	out := make([]Listing, len(sections))
	for i, sec := range sections {
		names := make([]string, len(sec.Entries))
		for j, e := range sec.Entries {
			names[j] = e.Name
		}
		out[i] = Listing{Section: sec.Name, Entries: names}
	}
	return out
}

// Each calls fn for every entry in catalog order until fn returns false.
func (s *Store) Each(fn func(section string, e formula.Entry) bool) {
	for _, sec := range s.catalog.Sections() {
		for _, e := range sec.Entries {
			if !fn(sec.Name, e) {
				return
			}
		}
	}
}

// NonEmptySections returns the sections that hold at least one entry.
func (s *Store) NonEmptySections() []formula.Section {
	var out []formula.Section
	for _, sec := range s.catalog.Sections() {
		if len(sec.Entries) > 0 {
			out = append(out, *sec)
		}
	}
	return out
}

// Catalog returns a deep copy of the current catalog.
func (s *Store) Catalog() *formula.Catalog {
	return s.catalog.Clone()
}

// Dirty reports whether the catalog changed since load or the last MarkSaved.
func (s *Store) Dirty() bool {
	return s.dirty
}

// MarkSaved records that the current catalog has been persisted.
func (s *Store) MarkSaved() {
	s.dirty = false
}

// checkText rejects text that would not decode back as one field.
func checkText(field, text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("%w: %s contains a line break", ErrInvalidText, field)
	}
	if strings.Contains(text, storage.FieldSeparator) {
		return fmt.Errorf("%w: %s contains %q", ErrInvalidText, field, storage.FieldSeparator)
	}
	return nil
}
