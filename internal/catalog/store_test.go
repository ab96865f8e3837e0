package catalog

import (
	"errors"
	"testing"

	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	c := formula.NewCatalog()
	c.Put(&formula.Section{Name: "Mechanics", Entries: []formula.Entry{
		formula.NewEntry("Newton2", "F=ma", "Force equals mass times acceleration"),
		formula.NewEntry("Momentum", "p=mv", "Momentum of a body"),
	}})
	c.Put(formula.NewSection("Optics"))
	return NewStore(c)
}

func TestAddSection(t *testing.T) {
	tests := []struct {
		name    string
		section string
		wantErr error
	}{
		{"new section", "Thermodynamics", nil},
		{"trimmed", "  Waves  ", nil},
		{"duplicate", "Mechanics", ErrDuplicateSection},
		{"empty", "", ErrEmptyName},
		{"blank", "   ", ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			before := s.Catalog()

			err := s.AddSection(tt.section)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddSection(%q) error = %v, want %v", tt.section, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if !s.Catalog().Equal(before) {
					t.Error("catalog changed on failed AddSection")
				}
				if s.Dirty() {
					t.Error("Dirty() = true after failed AddSection")
				}
				return
			}
			listing := s.ListAll()
			last := listing[len(listing)-1]
			if last.Section == "" || len(last.Entries) != 0 {
				t.Errorf("last section = %+v, want new empty section", last)
			}
			if !s.Dirty() {
				t.Error("Dirty() = false after AddSection")
			}
		})
	}
}

func TestAddThenRemoveSectionRestoresCatalog(t *testing.T) {
	s := newTestStore(t)
	before := s.Catalog()

	if err := s.AddSection("X"); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if err := s.RemoveSection("X"); err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if !s.Catalog().Equal(before) {
		t.Error("catalog not restored after add+remove")
	}
}

func TestRemoveSection_NotFound(t *testing.T) {
	s := newTestStore(t)
	before := s.Catalog()

	err := s.RemoveSection("Nope")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("RemoveSection() error = %v, want ErrSectionNotFound", err)
	}
	if !s.Catalog().Equal(before) {
		t.Error("catalog changed on failed RemoveSection")
	}
}

func TestRemoveSection_DropsEntries(t *testing.T) {
	s := newTestStore(t)

	if err := s.RemoveSection("Mechanics"); err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if err := s.AddSection("Mechanics"); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	for _, l := range s.ListAll() {
		if l.Section == "Mechanics" && len(l.Entries) != 0 {
			t.Errorf("re-added Mechanics has entries %v", l.Entries)
		}
	}
}

func TestAddEntry(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddEntry("Optics", formula.NewEntry("Snell", "n1 sin a = n2 sin b", "refraction")); err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	err := s.AddEntry("Nope", formula.NewEntry("x", "y", "z"))
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("AddEntry(missing section) error = %v, want ErrSectionNotFound", err)
	}

	listing := s.ListAll()
	if len(listing[1].Entries) != 1 || listing[1].Entries[0] != "Snell" {
		t.Errorf("Optics entries = %v, want [Snell]", listing[1].Entries)
	}
}

func TestAddEntry_DuplicatesAllowed(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 2; i++ {
		if err := s.AddEntry("Optics", formula.NewEntry("Lens", "1/f = 1/a + 1/b", "thin lens")); err != nil {
			t.Fatalf("AddEntry() #%d error = %v", i, err)
		}
	}
	if got := s.ListAll()[1].Entries; len(got) != 2 {
		t.Errorf("Optics entries = %v, want two Lens entries", got)
	}
}

func TestRemoveEntry(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddEntry("Mechanics", formula.NewEntry("newton2", "F=dp/dt", "general form")); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveEntry("Mechanics", "NEWTON2"); err != nil {
		t.Fatalf("RemoveEntry() error = %v", err)
	}

	got := s.ListAll()[0].Entries
	want := []string{"Momentum", "newton2"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("entries = %v, want %v (only first match removed)", got, want)
	}

	if err := s.RemoveEntry("Mechanics", "Gravity"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("RemoveEntry(missing entry) error = %v, want ErrEntryNotFound", err)
	}
	if err := s.RemoveEntry("Nope", "Gravity"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("RemoveEntry(missing section) error = %v, want ErrSectionNotFound", err)
	}
}

func TestListAll_IsSnapshot(t *testing.T) {
	s := newTestStore(t)

	listing := s.ListAll()
	listing[0].Entries[0] = "mutated"
	if err := s.AddEntry("Mechanics", formula.NewEntry("Work", "W=Fd", "work")); err != nil {
		t.Fatal(err)
	}

	if len(listing[0].Entries) != 2 {
		t.Errorf("snapshot grew to %d entries", len(listing[0].Entries))
	}
	if s.ListAll()[0].Entries[0] != "Newton2" {
		t.Error("mutating the snapshot changed the store")
	}
}

func TestNonEmptySections(t *testing.T) {
	s := newTestStore(t)

	got := s.NonEmptySections()
	if len(got) != 1 || got[0].Name != "Mechanics" {
		t.Errorf("NonEmptySections() = %+v, want only Mechanics", got)
	}
}

func TestMarkSaved(t *testing.T) {
	s := newTestStore(t)
	if s.Dirty() {
		t.Fatal("fresh store is dirty")
	}
	if err := s.AddSection("X"); err != nil {
		t.Fatal(err)
	}
	s.MarkSaved()
	if s.Dirty() {
		t.Error("Dirty() = true after MarkSaved")
	}
}

func TestRemoveSection_TrimsName(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddSection(" Waves "); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if err := s.RemoveSection(" Waves "); err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if _, ok := s.Catalog().Lookup("Waves"); ok {
		t.Error("Waves still present after RemoveSection")
	}
}

func TestAddEntry_TrimsFields(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddEntry("Mechanics", formula.NewEntry(" Newton2 ", "F = ma ", " force")); err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	sec, _ := s.Catalog().Lookup("Mechanics")
	got := sec.Entries[len(sec.Entries)-1]
	want := formula.NewEntry("Newton2", "F = ma", "force")
	if got != want {
		t.Errorf("stored entry = %+v, want %+v", got, want)
	}
}

func TestAddEntry_InvalidText(t *testing.T) {
	tests := []struct {
		name  string
		entry formula.Entry
	}{
		{"separator in formula", formula.NewEntry("pipe", "a|||b", "description")},
		{"separator in description", formula.NewEntry("pipe", "a", "b|||c")},
		{"separator in name", formula.NewEntry("a|||b", "c", "d")},
		{"newline in name", formula.NewEntry("two\nlines", "c", "d")},
		{"carriage return in description", formula.NewEntry("n", "c", "d\re")},
		{"formula looks like a section", formula.NewEntry("n", "@@@Optics:", "d")},
		{"formula looks like a name", formula.NewEntry("n", " ### x", "d")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			before := s.Catalog()

			err := s.AddEntry("Mechanics", tt.entry)
			if !errors.Is(err, ErrInvalidText) {
				t.Fatalf("AddEntry() error = %v, want ErrInvalidText", err)
			}
			if !s.Catalog().Equal(before) || s.Dirty() {
				t.Error("catalog changed on rejected AddEntry")
			}
		})
	}
}

func TestAddSection_InvalidText(t *testing.T) {
	for _, name := range []string{"Opt\nics", "Opt|||ics"} {
		s := newTestStore(t)
		if err := s.AddSection(name); !errors.Is(err, ErrInvalidText) {
			t.Errorf("AddSection(%q) error = %v, want ErrInvalidText", name, err)
		}
	}
}

func TestStoreMutationsRoundTrip(t *testing.T) {
	s := NewStore(nil)

	steps := []error{
		s.AddSection("  Mechanics "),
		s.AddEntry("Mechanics", formula.NewEntry(" Newton2 ", "F = ma ", " force")),
		s.AddEntry("Mechanics", formula.NewEntry("", "p=mv", "")),
		s.AddSection("Электричество:"),
		s.AddEntry("Электричество:", formula.NewEntry("Закон Ома", " I = U/R", "ток")),
		s.AddSection("Empty"),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	want := s.Catalog()
	got, err := storage.ParseString(storage.SerializeString(want))
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got.Sections(), want.Sections())
	}
}
