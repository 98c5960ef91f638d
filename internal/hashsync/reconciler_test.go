package hashsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docregistry/docreg/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.InitSchema())
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunHashesAndConverges(t *testing.T) {
	dir := t.TempDir()
	orig := writeFile(t, dir, "a.txt", "same bytes")
	dup := writeFile(t, dir, "b.txt", "same bytes")
	other := writeFile(t, dir, "c.txt", "different bytes")

	s := newTestStore(t)
	_, err := s.InsertBatch([]store.NewDocument{
		{Filename: "a.txt", Filepath: orig},
		{Filename: "b.txt", Filepath: dup},
		{Filename: "c.txt", Filepath: other},
	})
	require.NoError(t, err)
	require.NoError(t, s.SaveMetadata(1, store.Metadata{
		Direction: "inbound", DocType: "letter", Sender: "HQ",
	}))

	rec := New(s, nil)
	rec.Workers = 2
	require.NoError(t, rec.Run())

	a, err := s.DocumentByID(1)
	require.NoError(t, err)
	b, err := s.DocumentByID(2)
	require.NoError(t, err)
	c, err := s.DocumentByID(3)
	require.NoError(t, err)

	require.NotEmpty(t, a.FileHash)
	assert.Equal(t, a.FileHash, b.FileHash, "identical content, identical hash")
	assert.NotEqual(t, a.FileHash, c.FileHash)

	// Duplicate content converged on the populated metadata.
	assert.Equal(t, a.Meta, b.Meta)
	assert.True(t, c.Meta.Empty())

	refs, err := s.Unhashed()
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestRunSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "a.txt", "readable")

	s := newTestStore(t)
	_, err := s.InsertBatch([]store.NewDocument{
		{Filename: "a.txt", Filepath: ok},
		{Filename: "gone.txt", Filepath: filepath.Join(dir, "gone.txt")},
	})
	require.NoError(t, err)

	rec := New(s, nil)
	require.NoError(t, rec.Run(), "a missing file must never abort the pool")

	refs, err := s.Unhashed()
	require.NoError(t, err)
	require.Len(t, refs, 1, "the unreadable record stays unhashed")
	assert.Equal(t, int64(2), refs[0].ID)
}

func TestRunNoopWhenNothingUnhashed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, New(s, nil).Run())
}
