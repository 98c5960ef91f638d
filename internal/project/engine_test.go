package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docregistry/docreg/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.InitSchema())
	return NewEngine(s), s
}

func seedDocs(t *testing.T, s *store.Store) {
	t.Helper()
	_, err := s.InsertBatch([]store.NewDocument{
		{Filename: "file10.txt", Filepath: "/r/file10.txt"},
		{Filename: "file2.txt", Filepath: "/r/file2.txt"},
		{Filename: "note.txt", Filepath: "/r/a/note.txt", Folder: "a"},
		{Filename: "deep.txt", Filepath: "/r/a/b/deep.txt", Folder: filepath.Join("a", "b")},
	})
	require.NoError(t, err)
}

func TestProjectHierarchical(t *testing.T) {
	e, s := newTestEngine(t)
	seedDocs(t, s)

	root, err := e.Project(Filter{}, true)
	require.NoError(t, err)

	require.Len(t, root.Docs, 2, "root-level documents stay on the root node")
	require.Len(t, root.Folders, 1)

	a := root.Folders[0]
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "a", a.Path)
	require.Len(t, a.Docs, 1)
	require.Len(t, a.Folders, 1)

	b := a.Folders[0]
	assert.Equal(t, filepath.Join("a", "b"), b.Path)
	require.Len(t, b.Docs, 1)
	assert.Equal(t, "deep.txt", b.Docs[0].Doc.Filename)

	// Documents within a folder follow natural name order.
	assert.Equal(t, "file2.txt", root.Docs[0].Doc.Filename)
	assert.Equal(t, "file10.txt", root.Docs[1].Doc.Filename)
}

func TestProjectFlat(t *testing.T) {
	e, s := newTestEngine(t)
	seedDocs(t, s)

	root, err := e.Project(Filter{}, false)
	require.NoError(t, err)
	assert.Empty(t, root.Folders)
	assert.Len(t, root.Docs, 4)
}

func TestProjectAppliesFilter(t *testing.T) {
	e, s := newTestEngine(t)
	seedDocs(t, s)

	root, err := e.Project(Filter{Search: "deep"}, true)
	require.NoError(t, err)
	require.Empty(t, root.Docs)
	require.Len(t, root.Folders, 1, "only the matching branch survives")
	assert.Len(t, root.Folders[0].Folders[0].Docs, 1)
}

func TestProjectSearchFindsAuxNumbers(t *testing.T) {
	e, s := newTestEngine(t)
	seedDocs(t, s)
	require.NoError(t, s.ReplaceNumbers(3, []store.Number{{Type: "incoming", Value: "AB-77"}}))

	root, err := e.Project(Filter{Search: "ab-77"}, false)
	require.NoError(t, err)
	require.Len(t, root.Docs, 1)
	assert.Equal(t, int64(3), root.Docs[0].Doc.ID)
}

func TestClickColumnToggles(t *testing.T) {
	e, _ := newTestEngine(t)

	e.ClickColumn(ColFilename)
	col, desc := e.Sort()
	assert.Equal(t, ColFilename, col)
	assert.False(t, desc)

	e.ClickColumn(ColFilename)
	_, desc = e.Sort()
	assert.True(t, desc, "second click on the same column flips direction")

	e.ClickColumn(ColDate)
	col, desc = e.Sort()
	assert.Equal(t, ColDate, col)
	assert.False(t, desc, "a new column resets to ascending")
}

func TestProjectSortsFlatRows(t *testing.T) {
	e, s := newTestEngine(t)
	seedDocs(t, s)

	e.ClickColumn(ColFilename)
	root, err := e.Project(Filter{}, false)
	require.NoError(t, err)

	var names []string
	for _, r := range root.Docs {
		names = append(names, r.Doc.Filename)
	}
	assert.Equal(t, []string{"deep.txt", "file2.txt", "file10.txt", "note.txt"}, names)

	e.ClickColumn(ColFilename) // descending
	root, err = e.Project(Filter{}, false)
	require.NoError(t, err)
	assert.Equal(t, "note.txt", root.Docs[0].Doc.Filename)
}

func TestExpansionSurvivesRebuild(t *testing.T) {
	e, s := newTestEngine(t)
	seedDocs(t, s)

	e.SetExpanded("a", true)
	e.SetExpanded(filepath.Join("a", "b"), true)

	root, err := e.Project(Filter{}, true)
	require.NoError(t, err)
	assert.True(t, root.Folders[0].Expanded)
	assert.True(t, root.Folders[0].Folders[0].Expanded)

	e.SetExpanded(filepath.Join("a", "b"), false)
	root, err = e.Project(Filter{}, true)
	require.NoError(t, err)
	assert.True(t, root.Folders[0].Expanded)
	assert.False(t, root.Folders[0].Folders[0].Expanded)
}
