package links

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docregistry/docreg/internal/store"
)

func newTestGraph(t *testing.T) (*Graph, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.InitSchema())

	_, err = s.InsertBatch([]store.NewDocument{
		{Filename: "a.txt", Filepath: "/r/a.txt"},
		{Filename: "b.txt", Filepath: "/r/b.txt"},
		{Filename: "c.txt", Filepath: "/r/c.txt"},
	})
	require.NoError(t, err)
	return NewGraph(s), s
}

func TestAddCreatesSymmetricPair(t *testing.T) {
	g, _ := newTestGraph(t)
	require.NoError(t, g.Add(1, 2, "predecessor"))

	from1, err := g.LinksFor(1)
	require.NoError(t, err)
	require.Len(t, from1, 1)
	assert.Equal(t, Link{OtherID: 2, Type: "predecessor"}, from1[0])

	from2, err := g.LinksFor(2)
	require.NoError(t, err)
	require.Len(t, from2, 1)
	assert.Equal(t, Link{OtherID: 1, Type: "successor"}, from2[0])
}

func TestAddIsNoopWhenPairLinked(t *testing.T) {
	g, s := newTestGraph(t)
	require.NoError(t, g.Add(1, 2, "copy"))
	// Same pair from the other side, different type: still linked once.
	require.NoError(t, g.Add(2, 1, "reference"))

	var edges int
	err := s.QueryRow("SELECT COUNT(*) FROM document_links", func(row *sql.Row) error {
		return row.Scan(&edges)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, edges)

	from1, err := g.LinksFor(1)
	require.NoError(t, err)
	require.Len(t, from1, 1)
	assert.Equal(t, "copy", from1[0].Type)
}

func TestRemoveDeletesBothDirections(t *testing.T) {
	g, _ := newTestGraph(t)
	require.NoError(t, g.Add(1, 2, "amendment"))
	// Removal matches by endpoint pair, never by type.
	require.NoError(t, g.Remove(2, 1))

	from1, err := g.LinksFor(1)
	require.NoError(t, err)
	assert.Empty(t, from1)
	from2, err := g.LinksFor(2)
	require.NoError(t, err)
	assert.Empty(t, from2)
}

func TestLinksForPrefersForwardRecord(t *testing.T) {
	g, s := newTestGraph(t)
	// Inconsistent pair inserted behind the graph's back: the forward
	// row must win the merge.
	_, err := s.Execute(
		"INSERT INTO document_links (from_doc_id, to_doc_id, link_type) VALUES (1, 2, 'copy')")
	require.NoError(t, err)
	_, err = s.Execute(
		"INSERT INTO document_links (from_doc_id, to_doc_id, link_type) VALUES (2, 1, 'reference')")
	require.NoError(t, err)

	from1, err := g.LinksFor(1)
	require.NoError(t, err)
	require.Len(t, from1, 1)
	assert.Equal(t, "copy", from1[0].Type)
}

func TestCountDistinctPartners(t *testing.T) {
	g, _ := newTestGraph(t)
	require.NoError(t, g.Add(1, 2, "related"))
	require.NoError(t, g.Add(1, 3, "related"))

	n, err := g.Count(1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = g.Count(3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReverseSelfInverse(t *testing.T) {
	assert.Equal(t, "copy", Reverse("copy"))
	assert.Equal(t, "successor", Reverse("predecessor"))
	// Unknown types read back unchanged.
	assert.Equal(t, "bespoke", Reverse("bespoke"))
}
