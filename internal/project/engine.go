// Package project turns the flat document table into the registry view:
// multi-predicate filtering, typed sorting and a folder-hierarchy tree
// that survives rebuilds without losing expansion state.
//
// The engine only reads from the store and its own state; it is safe to
// run off the UI thread, posting the finished tree back for rendering.
package project

import (
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/docregistry/docreg/internal/store"
)

// Sortable column identifiers.
const (
	ColFilename    = "filename"
	ColDirection   = "status"
	ColType        = "doc_type"
	ColNumber      = "doc_number"
	ColDate        = "doc_date"
	ColSender      = "sender"
	ColTags        = "tags"
	ColControlled  = "is_controlled"
	ColDeadline    = "deadline"
	ColDescription = "description"
	ColModified    = "modified"
)

// Row is one projected document: the stored record plus its auxiliary
// numbers and the display timestamp.
type Row struct {
	Doc    store.Document
	Extras []string // auxiliary number values
}

// Modified renders the scan-time mtime for display and sorting.
func (r Row) Modified() string {
	if r.Doc.LastModified == 0 {
		return ""
	}
	return time.Unix(r.Doc.LastModified, 0).Format("02-01-2006 15:04")
}

// Incomplete reports whether any core registry field is still empty.
func (r Row) Incomplete() bool {
	m := r.Doc.Meta
	return m.DocType == "" || m.DocNumber == "" || m.DocDate == "" ||
		m.Sender == "" || m.Description == ""
}

// columnValue returns the raw value backing a display column.
func (r Row) columnValue(column string) string {
	m := r.Doc.Meta
	switch column {
	case ColFilename:
		return r.Doc.Filename
	case ColDirection:
		return m.Direction
	case ColType:
		return m.DocType
	case ColNumber:
		return m.DocNumber
	case ColDate:
		return m.DocDate
	case ColSender:
		return m.Sender
	case ColTags:
		return m.Tags
	case ColDeadline:
		return m.Deadline
	case ColDescription:
		return m.Description
	case ColModified:
		return r.Modified()
	}
	return ""
}

// flatText is the lowercase haystack for the free-text filter: folder,
// filename without extension, every visible field value and every
// auxiliary number.
func (r Row) flatText() string {
	name := r.Doc.Filename
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	parts := []string{r.Doc.Folder, name}
	for _, col := range []string{
		ColDirection, ColType, ColNumber, ColDate, ColSender,
		ColTags, ColDeadline, ColDescription, ColModified,
	} {
		parts = append(parts, r.columnValue(col))
	}
	parts = append(parts, r.Extras...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Engine holds the sort and expansion state shared between rebuilds.
type Engine struct {
	store *store.Store

	mu       sync.Mutex
	sortCol  string
	sortDesc bool

	// expanded folder identities (cumulative paths), preserved across
	// rebuilds. Thread-safe: the UI toggles while a rebuild may be
	// reading.
	expanded mapset.Set[string]
}

// NewEngine wires the projection engine to a store handle.
func NewEngine(s *store.Store) *Engine {
	return &Engine{
		store:    s,
		expanded: mapset.NewSet[string](),
	}
}

// ClickColumn implements header-click semantics: a repeated click on the
// active column toggles direction, a new column resets to ascending.
func (e *Engine) ClickColumn(column string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sortCol == column {
		e.sortDesc = !e.sortDesc
		return
	}
	e.sortCol = column
	e.sortDesc = false
}

// Sort reports the active sort column ("" when unsorted) and direction.
func (e *Engine) Sort() (column string, desc bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortCol, e.sortDesc
}

// SetExpanded records a folder node's open/closed state by its path.
func (e *Engine) SetExpanded(path string, open bool) {
	if open {
		e.expanded.Add(path)
		return
	}
	e.expanded.Remove(path)
}

// Project loads all documents and auxiliary numbers, applies the filter
// conjunction, sorts, and returns the forest root. In hierarchical mode
// documents are grouped under synthetic folder nodes; flat mode returns
// every surviving document directly under the root in filter/sort order.
func (e *Engine) Project(f Filter, hierarchical bool) (*Node, error) {
	docs, err := e.store.Documents()
	if err != nil {
		return nil, err
	}
	extras, err := e.store.NumbersByDocument()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(docs))
	for _, d := range docs {
		r := Row{Doc: d, Extras: extras[d.ID]}
		if f.matches(r) {
			rows = append(rows, r)
		}
	}

	if col, desc := e.Sort(); col != "" {
		sortRows(rows, col, desc)
	}

	if !hierarchical {
		root := newRoot()
		root.Docs = rows
		e.applyExpansion(root)
		return root, nil
	}
	root := buildTree(rows)
	e.applyExpansion(root)
	return root, nil
}

func (e *Engine) applyExpansion(root *Node) {
	var walk func(*Node)
	walk = func(n *Node) {
		n.Expanded = e.expanded.Contains(n.Path)
		for _, child := range n.Folders {
			walk(child)
		}
	}
	walk(root)
}
