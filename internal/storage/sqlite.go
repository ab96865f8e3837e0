package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/physform/internal/formula"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite query index. The catalog text stays the source of
// truth; the index is rebuilt from it on demand.
type DB struct {
	db *sql.DB
}

// IndexedEntry is an entry as stored in the query index.
type IndexedEntry struct {
	Section     string `json:"section"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
}

const selectEntryFields = `e.section, e.position, e.name, e.formula, e.description`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- Sections in catalog order
		CREATE TABLE IF NOT EXISTS sections (
			ord INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		-- Entries; rowid follows catalog order
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY,
			section TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			formula TEXT NOT NULL,
			description TEXT NOT NULL
		);

		-- Full-text search over every text field
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			entry_id UNINDEXED,
			section,
			name,
			formula,
			description
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromCatalog clears the index and fills it from the catalog.
// It returns the number of indexed entries.
func (d *DB) RebuildFromCatalog(c *formula.Catalog) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sections", "entries", "entries_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	sectionStmt, err := tx.Prepare(`INSERT INTO sections (ord, name) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing sections insert: %w", err)
	}
	defer sectionStmt.Close()

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (id, section, position, name, formula, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entryStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO entries_fts (entry_id, section, name, formula, description)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	id := 0
	for ord, s := range c.Sections() {
		if _, err := sectionStmt.Exec(ord, s.Name); err != nil {
			return 0, fmt.Errorf("inserting section %q: %w", s.Name, err)
		}
		for pos, e := range s.Entries {
			id++
			if _, err := entryStmt.Exec(id, s.Name, pos, e.Name, e.Formula, e.Description); err != nil {
				return 0, fmt.Errorf("inserting entry %q: %w", e.Name, err)
			}
			if _, err := ftsStmt.Exec(id, s.Name, e.Name, e.Formula, e.Description); err != nil {
				return 0, fmt.Errorf("inserting fts for %q: %w", e.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return id, nil
}

// Search runs a full-text query over section, name, formula and
// description. Results come back in catalog order. A limit of zero or
// less returns every match.
func (d *DB) Search(query string, limit int) ([]IndexedEntry, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.db.Query(`
		SELECT `+selectEntryFields+`
		FROM entries e
		WHERE e.id IN (SELECT entry_id FROM entries_fts WHERE entries_fts MATCH ?)
		ORDER BY e.id
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the number of indexed entries.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Sections returns indexed section names in catalog order.
func (d *DB) Sections() ([]string, error) {
	rows, err := d.db.Query(`SELECT name FROM sections ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]IndexedEntry, error) {
	var entries []IndexedEntry
	for rows.Next() {
		var e IndexedEntry
		if err := rows.Scan(&e.Section, &e.Position, &e.Name, &e.Formula, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// prepareFTSQuery quotes every term so formula punctuation such as "=" or
// "^" is matched literally instead of parsed as FTS5 syntax.
func prepareFTSQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = "\"" + strings.ReplaceAll(term, "\"", "\"\"") + "\""
	}
	return strings.Join(terms, " ")
}
