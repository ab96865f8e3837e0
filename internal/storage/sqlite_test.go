package storage

import (
	"path/filepath"
	"testing"

	"github.com/matsen/physform/internal/formula"
)

// setupTestDB creates an index over a small catalog.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	c := formula.NewCatalog()
	c.Put(&formula.Section{Name: "Mechanics", Entries: []formula.Entry{
		formula.NewEntry("Newton2", "F=ma", "Force equals mass times acceleration"),
		formula.NewEntry("Momentum", "p=mv", "Momentum of a body"),
	}})
	c.Put(formula.NewSection("Empty"))
	c.Put(&formula.Section{Name: "Relativity", Entries: []formula.Entry{
		formula.NewEntry("Mass-energy", "E=mc^2", "Energy of rest mass"),
	}})

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromCatalog(c)
	if err != nil {
		t.Fatalf("RebuildFromCatalog() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildFromCatalog() = %d, want 3", n)
	}
	return db
}

func TestDB_Count(t *testing.T) {
	db := setupTestDB(t)

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestDB_Sections(t *testing.T) {
	db := setupTestDB(t)

	names, err := db.Sections()
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}
	want := []string{"Mechanics", "Empty", "Relativity"}
	if len(names) != len(want) {
		t.Fatalf("Sections() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Sections()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDB_Search(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{"description word", "mass", []string{"Newton2", "Mass-energy"}},
		{"case insensitive", "MOMENTUM", []string{"Momentum"}},
		{"formula punctuation", "E=mc^2", []string{"Mass-energy"}},
		{"section name", "relativity", []string{"Mass-energy"}},
		{"no match", "entropy", nil},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Search(tt.query, 50)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("Search(%q) returned %d results, want %d: %+v", tt.query, len(got), len(tt.wantNames), got)
			}
			for i, name := range tt.wantNames {
				if got[i].Name != name {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestDB_RebuildReplacesContent(t *testing.T) {
	db := setupTestDB(t)

	c := formula.NewCatalog()
	c.Put(&formula.Section{Name: "Optics", Entries: []formula.Entry{
		formula.NewEntry("Snell", "n1 sin a = n2 sin b", "refraction"),
	}})
	if _, err := db.RebuildFromCatalog(c); err != nil {
		t.Fatalf("RebuildFromCatalog() error = %v", err)
	}

	n, _ := db.Count()
	if n != 1 {
		t.Errorf("Count() = %d after rebuild, want 1", n)
	}
	got, _ := db.Search("force", 10)
	if len(got) != 0 {
		t.Errorf("stale results after rebuild: %+v", got)
	}
}

func TestDB_SearchLimit(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		limit int
		want  int
	}{
		{1, 1},
		{2, 2},
		{0, 2},
		{-1, 2},
	}
	for _, tt := range tests {
		got, err := db.Search("mass", tt.limit)
		if err != nil {
			t.Fatalf("Search(limit=%d) error = %v", tt.limit, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(limit=%d) returned %d results, want %d", tt.limit, len(got), tt.want)
		}
	}
}
