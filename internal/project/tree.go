package project

import (
	"path/filepath"
	"sort"
	"strings"
)

// Node is one folder in the projection tree. Folders are synthetic —
// derived from document folder paths, not stored entities. A node's
// identity is its cumulative path, which is what keeps expansion state
// stable across rebuilds.
type Node struct {
	Name     string
	Path     string
	Expanded bool
	Folders  []*Node
	Docs     []Row
}

func newRoot() *Node {
	return &Node{Name: "[root]", Path: ""}
}

// buildTree groups rows under folder nodes keyed by path segments.
// Folders and documents inside each folder are independently ordered by
// the natural comparator on name; the column sort only governs flat mode.
func buildTree(rows []Row) *Node {
	root := newRoot()
	index := map[string]*Node{"": root}

	for _, r := range rows {
		node := root
		if r.Doc.Folder != "" {
			cumulative := ""
			for _, part := range strings.Split(r.Doc.Folder, string(filepath.Separator)) {
				if cumulative == "" {
					cumulative = part
				} else {
					cumulative = cumulative + string(filepath.Separator) + part
				}
				child, ok := index[cumulative]
				if !ok {
					child = &Node{Name: part, Path: cumulative}
					node.Folders = append(node.Folders, child)
					index[cumulative] = child
				}
				node = child
			}
		}
		node.Docs = append(node.Docs, r)
	}

	sortNode(root)
	return root
}

func sortNode(n *Node) {
	sort.SliceStable(n.Folders, func(i, j int) bool {
		return naturalCompare(n.Folders[i].Name, n.Folders[j].Name) < 0
	})
	sort.SliceStable(n.Docs, func(i, j int) bool {
		return naturalCompare(n.Docs[i].Doc.Filename, n.Docs[j].Doc.Filename) < 0
	})
	for _, child := range n.Folders {
		sortNode(child)
	}
}

// sortRows orders the flat row slice on one column, stable so equal keys
// keep their filter order.
func sortRows(rows []Row, column string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareRows(rows[i], rows[j], column)
		if desc {
			return c > 0
		}
		return c < 0
	})
}
