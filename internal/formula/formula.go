// Package formula defines the core domain types for the formula catalog.
package formula

// Entry is a single formula record. Name is the lookup key inside its
// section but is not required to be unique.
type Entry struct {
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
}

// NewEntry builds an Entry. Fields are stored as given.
func NewEntry(name, formula, description string) Entry {
	return Entry{Name: name, Formula: formula, Description: description}
}

// Section is a named, ordered group of entries.
type Section struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// NewSection returns a section with no entries.
func NewSection(name string) *Section {
	return &Section{Name: name, Entries: []Entry{}}
}

// Catalog maps section names to sections, keeping insertion order.
type Catalog struct {
	sections []*Section
	index    map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Len returns the number of sections.
func (c *Catalog) Len() int {
	return len(c.sections)
}

// EntryCount returns the total number of entries across all sections.
func (c *Catalog) EntryCount() int {
	n := 0
	for _, s := range c.sections {
		n += len(s.Entries)
	}
	return n
}

// Sections returns the sections in catalog order. The slice is fresh but
// the sections are shared with the catalog.
func (c *Catalog) Sections() []*Section {
	out := make([]*Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Names returns section names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.sections))
	for i, s := range c.sections {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the section with the given name.
func (c *Catalog) Lookup(name string) (*Section, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.sections[i], true
}

// Put stores a section under its name. An existing section with the same
// name is replaced in place, so it keeps its original position.
func (c *Catalog) Put(s *Section) {
	if s.Entries == nil {
		s.Entries = []Entry{}
	}
	if i, ok := c.index[s.Name]; ok {
		c.sections[i] = s
		return
	}
	c.index[s.Name] = len(c.sections)
	c.sections = append(c.sections, s)
}

// Delete removes the named section. It reports whether the section existed.
func (c *Catalog) Delete(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.sections = append(c.sections[:i], c.sections[i+1:]...)
	delete(c.index, name)
	for j := i; j < len(c.sections); j++ {
		c.index[c.sections[j].Name] = j
	}
	return true
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for _, s := range c.sections {
		entries := make([]Entry, len(s.Entries))
		copy(entries, s.Entries)
		out.Put(&Section{Name: s.Name, Entries: entries})
	}
	return out
}

// Equal reports whether two catalogs hold the same sections, in the same
// order, with the same entries.
func (c *Catalog) Equal(other *Catalog) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i, s := range c.sections {
		o := other.sections[i]
		if s.Name != o.Name || len(s.Entries) != len(o.Entries) {
			return false
		}
		for j, e := range s.Entries {
			if e != o.Entries[j] {
				return false
			}
		}
	}
	return true
}
