package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/physform/internal/config"
	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/query"
	"github.com/matsen/physform/internal/storage"
)

func TestGetStartingDirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	config.ResetGlobalConfigCache()
	defer config.ResetGlobalConfigCache()

	t.Run("PF_ROOT wins", func(t *testing.T) {
		t.Setenv("PF_ROOT", "/srv/formulas")
		got, code := getStartingDirectory()
		if code != 0 || got != "/srv/formulas" {
			t.Errorf("getStartingDirectory() = %q, %d, want /srv/formulas, 0", got, code)
		}
	})

	t.Run("falls back to cwd", func(t *testing.T) {
		t.Setenv("PF_ROOT", "")
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		got, code := getStartingDirectory()
		if code != 0 || got != cwd {
			t.Errorf("getStartingDirectory() = %q, %d, want %q, 0", got, code, cwd)
		}
	})
}

func TestMustOpenBackend_File(t *testing.T) {
	root := t.TempDir()
	backend := mustOpenBackend(context.Background(), root, config.Default())

	want := filepath.Join(root, config.LibraryDir, config.CatalogFile)
	if backend.Location() != want {
		t.Errorf("Location() = %q, want %q", backend.Location(), want)
	}
}

func TestMustSave_WritesOnlyWhenDirty(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "formulas.txt")
	backend := storage.NewFileBackend(path)
	store := mustLoadStore(ctx, backend)

	mustSave(ctx, root, backend, store)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clean store was written: %v", err)
	}

	if err := store.AddSection("Optics"); err != nil {
		t.Fatal(err)
	}
	mustSave(ctx, root, backend, store)
	if store.Dirty() {
		t.Error("Dirty() = true after save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "@@@Optics:\n" {
		t.Errorf("file = %q, want %q", data, "@@@Optics:\n")
	}
}

func TestMustSave_RefreshesExistingIndex(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	backend := storage.NewFileBackend(config.CatalogPath(root))
	store := mustLoadStore(ctx, backend)

	db := mustOpenDatabase(root)
	if _, err := db.RebuildFromCatalog(store.Catalog()); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if err := store.AddSection("Optics"); err != nil {
		t.Fatal(err)
	}
	if err := store.AddEntry("Optics", formula.NewEntry("Snell", "n1 sin a = n2 sin b", "refraction")); err != nil {
		t.Fatal(err)
	}
	mustSave(ctx, root, backend, store)

	db = mustOpenDatabase(root)
	defer db.Close()
	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("indexed entries = %d after save, want 1", n)
	}
	got, err := db.Search("refraction", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Snell" {
		t.Errorf("Search(refraction) = %+v, want Snell", got)
	}
}

func TestRefreshIndex_NoIndex(t *testing.T) {
	root := t.TempDir()
	if err := refreshIndex(root, formula.NewCatalog()); err != nil {
		t.Fatalf("refreshIndex() error = %v", err)
	}
	if _, err := os.Stat(config.DBPath(root)); !os.IsNotExist(err) {
		t.Errorf("refreshIndex created an index: %v", err)
	}
}

func TestEntryResults(t *testing.T) {
	matches := []query.Match{
		{Section: "Mechanics", Entry: formula.NewEntry("Newton2", "F=ma", "force")},
		{Section: "Optics", Entry: formula.NewEntry("Snell", "n1sina=n2sinb", "")},
	}

	got := entryResults(matches)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	want := EntryResult{Section: "Mechanics", Name: "Newton2", Formula: "F=ma", Description: "force"}
	if got[0] != want {
		t.Errorf("entryResults()[0] = %+v, want %+v", got[0], want)
	}
	if got[1].Section != "Optics" || got[1].Description != "" {
		t.Errorf("entryResults()[1] = %+v", got[1])
	}
}

func TestIndexStatus(t *testing.T) {
	root := t.TempDir()
	c := formula.NewCatalog()
	c.Put(&formula.Section{Name: "Mechanics", Entries: []formula.Entry{
		formula.NewEntry("Newton2", "F=ma", "force"),
	}})

	if got := indexStatus(root, c); got != "missing" {
		t.Errorf("indexStatus() = %q before any index, want missing", got)
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		t.Fatal(err)
	}
	db := mustOpenDatabase(root)
	if _, err := db.RebuildFromCatalog(c); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if got := indexStatus(root, c); got != "current" {
		t.Errorf("indexStatus() = %q after rebuild, want current", got)
	}

	c.Put(formula.NewSection("Optics"))
	if got := indexStatus(root, c); got != "stale" {
		t.Errorf("indexStatus() = %q after adding a section, want stale", got)
	}
}
