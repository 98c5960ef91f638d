package store

import (
	"database/sql"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Metadata is the user-editable registry field set. It is also the unit
// of hash propagation: when two files share content, this whole set is
// copied across, never merged field by field.
type Metadata struct {
	Direction   string // inbound / outbound
	DocType     string
	DocNumber   string
	DocDate     string // ISO YYYY-MM-DD, or empty
	Sender      string
	Tags        string // classification marking
	Controlled  bool
	Deadline    string // ISO YYYY-MM-DD, meaningful only when Controlled
	Description string
}

// Empty reports whether every field carries its zero value.
func (m Metadata) Empty() bool {
	return m.Direction == "" && m.DocType == "" && m.DocNumber == "" &&
		m.DocDate == "" && m.Sender == "" && m.Tags == "" &&
		!m.Controlled && m.Deadline == "" && m.Description == ""
}

// Validate rejects malformed metadata before any mutation happens.
func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Direction, validation.In("", "inbound", "outbound")),
		validation.Field(&m.DocDate, validation.Date("2006-01-02")),
		validation.Field(&m.Deadline,
			validation.Date("2006-01-02"),
			validation.Required.When(m.Controlled).Error("deadline required for controlled documents")),
	)
}

// Document is one tracked file plus its registry metadata.
type Document struct {
	ID           int64
	Filename     string
	Filepath     string
	Folder       string // relative to the scan root, "" at the root
	LastModified int64  // unix seconds at scan time
	FileHash     string // empty until the reconciler processes the file
	IsNew        bool
	Meta         Metadata
}

// NewDocument is the record shape the scanner inserts.
type NewDocument struct {
	Filename     string
	Filepath     string
	Folder       string
	LastModified int64
}

const docColumns = `id, filename, filepath, folder, last_modified,
	COALESCE(file_hash, ''), is_new, status, doc_type, doc_number, doc_date,
	sender, tags, is_controlled, deadline, description`

func scanDocument(rows *sql.Rows) (Document, error) {
	var d Document
	var isNew, controlled int
	err := rows.Scan(&d.ID, &d.Filename, &d.Filepath, &d.Folder, &d.LastModified,
		&d.FileHash, &isNew, &d.Meta.Direction, &d.Meta.DocType, &d.Meta.DocNumber,
		&d.Meta.DocDate, &d.Meta.Sender, &d.Meta.Tags, &controlled,
		&d.Meta.Deadline, &d.Meta.Description)
	if err != nil {
		return Document{}, err
	}
	d.IsNew = isNew != 0
	d.Meta.Controlled = controlled != 0
	return d, nil
}

// Documents loads every document row.
func (s *Store) Documents() ([]Document, error) {
	var docs []Document
	err := s.Query("SELECT "+docColumns+" FROM documents", func(rows *sql.Rows) error {
		d, err := scanDocument(rows)
		if err != nil {
			return err
		}
		docs = append(docs, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DocumentByID loads one document or ErrNotFound.
func (s *Store) DocumentByID(id int64) (Document, error) {
	var docs []Document
	err := s.Query("SELECT "+docColumns+" FROM documents WHERE id=?", func(rows *sql.Rows) error {
		d, err := scanDocument(rows)
		if err != nil {
			return err
		}
		docs = append(docs, d)
		return nil
	}, id)
	if err != nil {
		return Document{}, err
	}
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	return docs[0], nil
}

// KnownPaths returns the set of absolute file paths already registered.
// Loaded once per scan so the walk never queries per file.
func (s *Store) KnownPaths() (mapset.Set[string], error) {
	paths := mapset.NewThreadUnsafeSet[string]()
	err := s.Query("SELECT filepath FROM documents", func(rows *sql.Rows) error {
		var p string
		if err := rows.Scan(&p); err != nil {
			return err
		}
		paths.Add(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// InsertBatch inserts the given records in one multi-row transaction,
// every row flagged is_new=1 and with a null content hash.
func (s *Store) InsertBatch(records []NewDocument) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	sets := make([][]any, 0, len(records))
	for _, r := range records {
		sets = append(sets, []any{r.Filename, r.Filepath, r.Folder, r.LastModified})
	}
	return s.ExecMany(`INSERT INTO documents
		(filename, filepath, folder, last_modified, file_hash, is_new)
		VALUES (?, ?, ?, ?, NULL, 1)`, sets)
}

// SaveMetadata validates and persists the full registry field set for one
// document. The deadline is stored only while the document is controlled.
func (s *Store) SaveMetadata(id int64, m Metadata) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}
	deadline := m.Deadline
	if !m.Controlled {
		deadline = ""
	}
	_, err := s.Execute(`UPDATE documents SET
		status=?, doc_type=?, doc_number=?, doc_date=?, sender=?, tags=?,
		is_controlled=?, deadline=?, description=? WHERE id=?`,
		m.Direction, m.DocType, m.DocNumber, m.DocDate, m.Sender, m.Tags,
		boolToInt(m.Controlled), deadline, m.Description, id)
	return err
}

// Rename records a filesystem rename that already happened on disk.
func (s *Store) Rename(id int64, filename, filepath string) error {
	_, err := s.Execute("UPDATE documents SET filename=?, filepath=? WHERE id=?",
		filename, filepath, id)
	return err
}

// Delete removes the document together with its auxiliary numbers and
// both directions of every link, all in one transaction so a fault leaves
// no orphans behind.
func (s *Store) Delete(id int64) error {
	return s.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM document_numbers WHERE document_id=?", id); err != nil {
			return fmt.Errorf("delete numbers: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM document_links WHERE from_doc_id=? OR to_doc_id=?", id, id); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM documents WHERE id=?", id); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
}

// ClearDocuments wipes documents and their numbers ahead of a full
// rescan. Link rows are left alone on purpose.
func (s *Store) ClearDocuments() error {
	return s.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM document_numbers"); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM documents")
		return err
	})
}

// NewCount returns how many documents still carry the is_new flag.
func (s *Store) NewCount() (int, error) {
	var n int
	err := s.QueryRow("SELECT COUNT(*) FROM documents WHERE is_new=1", func(row *sql.Row) error {
		return row.Scan(&n)
	})
	return n, err
}

// NewIDs returns the ids of documents not yet viewed.
func (s *Store) NewIDs() ([]int64, error) {
	var ids []int64
	err := s.Query("SELECT id FROM documents WHERE is_new=1", func(rows *sql.Rows) error {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// MarkAllSeen clears the is_new flag in bulk once the registry was viewed.
func (s *Store) MarkAllSeen() error {
	_, err := s.Execute("UPDATE documents SET is_new=0 WHERE is_new=1")
	return err
}

// ControlledOn lists controlled documents whose deadline falls on the
// given ISO date. Backs the calendar's deadline view.
func (s *Store) ControlledOn(date string) ([]Document, error) {
	var docs []Document
	err := s.Query("SELECT "+docColumns+" FROM documents WHERE is_controlled=1 AND deadline=?",
		func(rows *sql.Rows) error {
			d, err := scanDocument(rows)
			if err != nil {
				return err
			}
			docs = append(docs, d)
			return nil
		}, date)
	return docs, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
