// Package settings persists the scan-root list in a small JSON file and
// exposes the active root the engine scans.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fileData struct {
	Folders []string `json:"folders"`
	Active  string   `json:"active,omitempty"`
}

// Manager loads and saves the settings file. All accessors are safe for
// concurrent use.
type Manager struct {
	path string

	mu   sync.Mutex
	data fileData
}

// Load reads the settings file, creating it with empty defaults when
// absent.
func Load(path string) (*Manager, error) {
	m := &Manager{path: path}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, m.save()
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &m.data); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return m, nil
}

func (m *Manager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("mkdir settings dir: %w", err)
	}
	raw, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Folders returns the configured scan roots.
func (m *Manager) Folders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.data.Folders))
	copy(out, m.data.Folders)
	return out
}

// Add registers a scan root. The first root added becomes active.
// Returns false when the root is already present.
func (m *Manager) Add(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.data.Folders {
		if f == path {
			return false, nil
		}
	}
	m.data.Folders = append(m.data.Folders, path)
	if m.data.Active == "" {
		m.data.Active = path
	}
	return true, m.save()
}

// Remove drops a scan root; if it was active, the first remaining root
// takes over (or none).
func (m *Manager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.data.Folders[:0]
	for _, f := range m.data.Folders {
		if f != path {
			kept = append(kept, f)
		}
	}
	m.data.Folders = kept
	if m.data.Active == path {
		m.data.Active = ""
		if len(m.data.Folders) > 0 {
			m.data.Active = m.data.Folders[0]
		}
	}
	return m.save()
}

// Active returns the current scan root, "" when none is configured.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Active
}

// SetActive switches the active root. The root must already be
// registered.
func (m *Manager) SetActive(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.data.Folders {
		if f == path {
			m.data.Active = path
			return m.save()
		}
	}
	return fmt.Errorf("unknown scan root %q", path)
}
