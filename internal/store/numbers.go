package store

import (
	"database/sql"
	"fmt"
)

// Number is one auxiliary identifying number attached to a document
// beyond its primary registry number.
type Number struct {
	Type  string
	Value string
}

// NumbersFor returns the auxiliary numbers of one document.
func (s *Store) NumbersFor(docID int64) ([]Number, error) {
	var nums []Number
	err := s.Query(
		"SELECT number_type, number_value FROM document_numbers WHERE document_id=?",
		func(rows *sql.Rows) error {
			var n Number
			if err := rows.Scan(&n.Type, &n.Value); err != nil {
				return err
			}
			nums = append(nums, n)
			return nil
		}, docID)
	return nums, err
}

// NumbersByDocument loads all auxiliary numbers grouped by document id,
// for the projection engine's single-pass load.
func (s *Store) NumbersByDocument() (map[int64][]string, error) {
	byDoc := make(map[int64][]string)
	err := s.Query("SELECT document_id, number_value FROM document_numbers",
		func(rows *sql.Rows) error {
			var id int64
			var value string
			if err := rows.Scan(&id, &value); err != nil {
				return err
			}
			byDoc[id] = append(byDoc[id], value)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return byDoc, nil
}

// ReplaceNumbers fully replaces a document's number set. Delete then
// reinsert — the set is small and never diffed incrementally.
func (s *Store) ReplaceNumbers(docID int64, numbers []Number) error {
	return s.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM document_numbers WHERE document_id=?", docID); err != nil {
			return fmt.Errorf("clear numbers: %w", err)
		}
		if len(numbers) == 0 {
			return nil
		}
		stmt, err := tx.Prepare(
			"INSERT INTO document_numbers (document_id, number_type, number_value) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer func() { _ = stmt.Close() }() // safe to ignore
		for _, n := range numbers {
			if _, err := stmt.Exec(docID, n.Type, n.Value); err != nil {
				return fmt.Errorf("insert number: %w", err)
			}
		}
		return nil
	})
}
