package store

import (
	"database/sql"
)

// UnhashedRef points the reconciler at a record whose content hash has
// not been computed yet.
type UnhashedRef struct {
	ID   int64
	Path string
}

// Unhashed returns every record still waiting for a content hash.
func (s *Store) Unhashed() ([]UnhashedRef, error) {
	var refs []UnhashedRef
	err := s.Query("SELECT id, filepath FROM documents WHERE file_hash IS NULL",
		func(rows *sql.Rows) error {
			var r UnhashedRef
			if err := rows.Scan(&r.ID, &r.Path); err != nil {
				return err
			}
			refs = append(refs, r)
			return nil
		})
	return refs, err
}

// SetHash persists a computed content hash. Once set the hash is stable —
// content rewrites are not re-detected.
func (s *Store) SetHash(id int64, hash string) error {
	_, err := s.Execute("UPDATE documents SET file_hash=? WHERE id=?", hash, id)
	return err
}

// PropagateMetadata converges registry metadata across records sharing a
// content hash. If the just-hashed record carries any non-empty field,
// its full field set is copied onto every other record with the same
// hash. Otherwise the first same-hash record found with any non-empty
// field is copied onto the just-hashed record. Best-effort and
// one-directional: when several duplicates disagree, whichever matches
// first wins — no field-level merge is attempted.
func (s *Store) PropagateMetadata(hash string, id int64) error {
	doc, err := s.DocumentByID(id)
	if err != nil {
		return err
	}

	const metaSet = `status=?, doc_type=?, doc_number=?, doc_date=?,
		sender=?, tags=?, is_controlled=?, deadline=?, description=?`

	if !doc.Meta.Empty() {
		m := doc.Meta
		_, err := s.Execute("UPDATE documents SET "+metaSet+" WHERE file_hash=? AND id!=?",
			m.Direction, m.DocType, m.DocNumber, m.DocDate, m.Sender, m.Tags,
			boolToInt(m.Controlled), m.Deadline, m.Description, hash, id)
		return err
	}

	var donors []Document
	err = s.Query("SELECT "+docColumns+" FROM documents WHERE file_hash=? AND id!=?",
		func(rows *sql.Rows) error {
			d, err := scanDocument(rows)
			if err != nil {
				return err
			}
			donors = append(donors, d)
			return nil
		}, hash, id)
	if err != nil {
		return err
	}
	for _, donor := range donors {
		if donor.Meta.Empty() {
			continue
		}
		m := donor.Meta
		_, err := s.Execute("UPDATE documents SET "+metaSet+" WHERE id=?",
			m.Direction, m.DocType, m.DocNumber, m.DocDate, m.Sender, m.Tags,
			boolToInt(m.Controlled), m.Deadline, m.Description, id)
		return err
	}
	return nil
}
