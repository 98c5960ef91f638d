package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.json")
	m, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, m.Folders())
	assert.Empty(t, m.Active())

	// A second load reads the file written by the first.
	_, err = Load(path)
	require.NoError(t, err)
}

func TestAddActivatesFirstRoot(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	added, err := m.Add("/docs")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "/docs", m.Active())

	added, err = m.Add("/docs")
	require.NoError(t, err)
	assert.False(t, added, "duplicate roots are rejected")

	_, err = m.Add("/archive")
	require.NoError(t, err)
	assert.Equal(t, "/docs", m.Active(), "adding more roots keeps the active one")
}

func TestRemoveFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m, err := Load(path)
	require.NoError(t, err)
	_, err = m.Add("/docs")
	require.NoError(t, err)
	_, err = m.Add("/archive")
	require.NoError(t, err)

	require.NoError(t, m.Remove("/docs"))
	assert.Equal(t, "/archive", m.Active())

	require.NoError(t, m.Remove("/archive"))
	assert.Empty(t, m.Active())
}

func TestSetActiveRequiresKnownRoot(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	_, err = m.Add("/docs")
	require.NoError(t, err)

	assert.Error(t, m.SetActive("/elsewhere"))
	require.NoError(t, m.SetActive("/docs"))
}

func TestStatePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m, err := Load(path)
	require.NoError(t, err)
	_, err = m.Add("/docs")
	require.NoError(t, err)
	_, err = m.Add("/archive")
	require.NoError(t, err)
	require.NoError(t, m.SetActive("/archive"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs", "/archive"}, reloaded.Folders())
	assert.Equal(t, "/archive", reloaded.Active())
}
