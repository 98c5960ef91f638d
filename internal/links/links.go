// Package links maintains typed, bidirectional relationships between
// documents. Every link is stored as a symmetric pair of directed edges;
// the reverse edge carries the semantic inverse of the forward type.
package links

import (
	"database/sql"
	"fmt"

	"github.com/docregistry/docreg/internal/store"
)

// Types is the fixed set of selectable link types.
var Types = []string{
	"related",
	"predecessor",
	"successor",
	"copy",
	"attachment",
	"reference",
	"reply",
	"archive",
	"amendment",
	"cancellation",
	"control",
	"assignment",
	"report",
	"protocol",
}

// reverseTypes maps each link type to its semantic inverse. Types absent
// from the table (and self-inverse entries) read back as themselves.
var reverseTypes = map[string]string{
	"predecessor":     "successor",
	"successor":       "predecessor",
	"copy":            "copy",
	"attachment":      "parent document",
	"parent document": "attachment",
	"reply":           "request",
	"request":         "reply",
	"reference":       "reference",
	"archive":         "current",
	"current":         "archive",
	"amendment":       "amended",
	"amended":         "amendment",
	"cancellation":    "cancelled",
	"cancelled":       "cancellation",
	"control":         "controlled",
	"controlled":      "control",
	"assignment":      "completed",
	"completed":       "assignment",
	"report":          "recommendation",
	"recommendation":  "report",
	"protocol":        "register",
	"register":        "protocol",
}

// Reverse returns the inverse of a link type.
func Reverse(linkType string) string {
	if rev, ok := reverseTypes[linkType]; ok {
		return rev
	}
	return linkType
}

// Graph exposes the link operations over the shared store.
type Graph struct {
	store *store.Store
}

// NewGraph wires the link graph to a store handle.
func NewGraph(s *store.Store) *Graph {
	return &Graph{store: s}
}

// Link is one edge as seen from a particular document.
type Link struct {
	OtherID int64
	Type    string
}

// Add inserts the symmetric edge pair (a,b,linkType) and
// (b,a,Reverse(linkType)). A no-op when any link already exists between
// the pair in either direction.
func (g *Graph) Add(a, b int64, linkType string) error {
	return g.store.Transaction(func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM document_links
			WHERE (from_doc_id=? AND to_doc_id=?) OR (from_doc_id=? AND to_doc_id=?)`,
			a, b, b, a).Scan(&one)
		if err == nil {
			return nil // pair already linked
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check existing link: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO document_links (from_doc_id, to_doc_id, link_type) VALUES (?, ?, ?)",
			a, b, linkType); err != nil {
			return fmt.Errorf("insert forward edge: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO document_links (from_doc_id, to_doc_id, link_type) VALUES (?, ?, ?)",
			b, a, Reverse(linkType)); err != nil {
			return fmt.Errorf("insert reverse edge: %w", err)
		}
		return nil
	})
}

// Remove deletes both directions between the pair. Matching is by
// endpoint pair only — the stored reverse type may differ from what the
// caller would guess, so type never participates in deletion.
func (g *Graph) Remove(a, b int64) error {
	_, err := g.store.Execute(`DELETE FROM document_links
		WHERE (from_doc_id=? AND to_doc_id=?) OR (from_doc_id=? AND to_doc_id=?)`,
		a, b, b, a)
	return err
}

// LinksFor merges edges where the document is the "from" side (native
// type) with edges where it is the "to" side (type translated through the
// reverse table), deduplicated by partner with the forward record taking
// precedence.
func (g *Graph) LinksFor(docID int64) ([]Link, error) {
	var forward, backward []Link
	err := g.store.Query(
		"SELECT to_doc_id, link_type FROM document_links WHERE from_doc_id=?",
		func(rows *sql.Rows) error {
			var l Link
			if err := rows.Scan(&l.OtherID, &l.Type); err != nil {
				return err
			}
			forward = append(forward, l)
			return nil
		}, docID)
	if err != nil {
		return nil, err
	}
	err = g.store.Query(
		"SELECT from_doc_id, link_type FROM document_links WHERE to_doc_id=?",
		func(rows *sql.Rows) error {
			var l Link
			if err := rows.Scan(&l.OtherID, &l.Type); err != nil {
				return err
			}
			l.Type = Reverse(l.Type)
			backward = append(backward, l)
			return nil
		}, docID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var merged []Link
	for _, l := range append(forward, backward...) {
		if seen[l.OtherID] {
			continue
		}
		seen[l.OtherID] = true
		merged = append(merged, l)
	}
	return merged, nil
}

// Count returns the number of distinct linked partners.
func (g *Graph) Count(docID int64) (int, error) {
	var n int
	err := g.store.QueryRow(`SELECT COUNT(*) FROM (
		SELECT to_doc_id AS other_id FROM document_links WHERE from_doc_id=? AND to_doc_id!=?
		UNION
		SELECT from_doc_id AS other_id FROM document_links WHERE to_doc_id=? AND from_doc_id!=?
	)`, func(row *sql.Row) error {
		return row.Scan(&n)
	}, docID, docID, docID, docID)
	return n, err
}
