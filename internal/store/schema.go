package store

import (
	"database/sql"
	"fmt"
)

// schemaDDL creates every table and index if absent. Referential
// integrity between documents, numbers and links is enforced by
// application code, not by the store.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	filepath TEXT NOT NULL,
	folder TEXT NOT NULL DEFAULT '',
	last_modified INTEGER NOT NULL DEFAULT 0,
	file_hash TEXT,
	is_new INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT '',
	doc_type TEXT NOT NULL DEFAULT '',
	doc_number TEXT NOT NULL DEFAULT '',
	doc_date TEXT NOT NULL DEFAULT '',
	sender TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	is_controlled INTEGER NOT NULL DEFAULT 0,
	deadline TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_documents_folder ON documents(folder);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(file_hash);
CREATE INDEX IF NOT EXISTS idx_documents_filepath ON documents(filepath);

CREATE TABLE IF NOT EXISTS document_types (
	type_name TEXT PRIMARY KEY,
	category TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS document_numbers (
	document_id INTEGER NOT NULL,
	number_type TEXT NOT NULL DEFAULT '',
	number_value TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_numbers_document ON document_numbers(document_id);
CREATE INDEX IF NOT EXISTS idx_numbers_value ON document_numbers(number_value);

CREATE TABLE IF NOT EXISTS document_links (
	from_doc_id INTEGER NOT NULL,
	to_doc_id INTEGER NOT NULL,
	link_type TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_links_from ON document_links(from_doc_id);
CREATE INDEX IF NOT EXISTS idx_links_to ON document_links(to_doc_id);
`

// seedTypes is the static (type_name, category) lookup inserted at
// startup. INSERT OR IGNORE keeps re-seeding idempotent.
var seedTypes = [][2]string{
	{"letter", "correspondence"},
	{"memo", "correspondence"},
	{"request", "correspondence"},
	{"reply", "correspondence"},
	{"order", "administrative"},
	{"directive", "administrative"},
	{"instruction", "administrative"},
	{"report", "reporting"},
	{"protocol", "reporting"},
	{"act", "reporting"},
	{"statement", "personnel"},
	{"contract", "legal"},
	{"certificate", "reference"},
	{"plan", "planning"},
}

// InitSchema creates tables and indices, then runs the additive file_hash
// migration for databases predating the hash column. Never destructive —
// safe to call on every start.
func (s *Store) InitSchema() error {
	return s.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(schemaDDL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return migrateFileHash(tx)
	})
}

// migrateFileHash adds the nullable file_hash column when a pre-hash
// database is opened. PRAGMA table_info is the only portable way to
// detect the column in SQLite.
func migrateFileHash(tx *sql.Tx) error {
	rows, err := tx.Query("PRAGMA table_info(documents)")
	if err != nil {
		return fmt.Errorf("table_info: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	present := false
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("scan table_info: %w", err)
		}
		if name == "file_hash" {
			present = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if present {
		return nil
	}
	if _, err := tx.Exec("ALTER TABLE documents ADD COLUMN file_hash TEXT"); err != nil {
		return fmt.Errorf("add file_hash column: %w", err)
	}
	return nil
}

// SeedTypes inserts the initial document-type lookup rows.
func (s *Store) SeedTypes() error {
	sets := make([][]any, 0, len(seedTypes))
	for _, t := range seedTypes {
		sets = append(sets, []any{t[0], t[1]})
	}
	_, err := s.ExecMany(
		"INSERT OR IGNORE INTO document_types (type_name, category) VALUES (?, ?)", sets)
	return err
}

// Types returns the type_name → category lookup used by editors.
func (s *Store) Types() (map[string]string, error) {
	types := make(map[string]string)
	err := s.Query("SELECT type_name, category FROM document_types", func(rows *sql.Rows) error {
		var name, category string
		if err := rows.Scan(&name, &category); err != nil {
			return err
		}
		types[name] = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}
