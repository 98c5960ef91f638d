// Package scan discovers files under a root directory and reconciles
// them against the registry. The walk runs on a background goroutine;
// discovered records are flushed to the store in batches and progress is
// reported through a caller-supplied callback.
package scan

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	"github.com/docregistry/docreg/internal/store"
)

const (
	// DefaultBatchSize bounds transaction overhead on large trees.
	DefaultBatchSize = 500
	// DefaultThrottle is how many files pass between progress reports,
	// keeping very large scans from saturating the UI queue.
	DefaultThrottle = 1
)

// ProgressFunc receives (done, total) after every throttle files and once
// more at completion. It is invoked from the scanning goroutine — callers
// that touch UI state must hand the invocation to a dispatch queue.
type ProgressFunc func(done, total int)

// Scanner walks a filesystem and inserts unknown files into the store.
// The filesystem is abstracted so tests run against an in-memory tree.
type Scanner struct {
	FS        billy.Filesystem
	Store     *store.Store
	BatchSize int
	Throttle  int
	Log       *logrus.Logger
}

// New returns a Scanner with default batching and throttling.
func New(fs billy.Filesystem, s *store.Store, log *logrus.Logger) *Scanner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scanner{
		FS:        fs,
		Store:     s,
		BatchSize: DefaultBatchSize,
		Throttle:  DefaultThrottle,
		Log:       log,
	}
}

// Scan enumerates every regular file under root, skips paths the
// registry already knows, and batch-inserts the rest with is_new=1.
// Re-running over an unchanged tree inserts nothing. Renamed files are
// not detected — a rename shows up as one new row plus one orphan.
func (sc *Scanner) Scan(root string, progress ProgressFunc) error {
	known, err := sc.Store.KnownPaths()
	if err != nil {
		return fmt.Errorf("load known paths: %w", err)
	}

	var all []string
	if err := sc.collect(root, &all); err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	total := len(all)
	sc.Log.WithFields(logrus.Fields{"root": root, "files": total, "known": known.Cardinality()}).
		Info("scan started")

	if progress != nil {
		progress(0, total)
	}

	throttle := sc.Throttle
	if throttle < 1 {
		throttle = 1
	}
	batchSize := sc.BatchSize
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	done := 0
	batch := make([]store.NewDocument, 0, batchSize)
	for _, path := range all {
		done++
		if progress != nil && done%throttle == 0 {
			progress(done, total)
		}
		if known.Contains(path) {
			continue
		}

		// Per-file stat failures (permission, deletion race) are
		// recoverable: skip the file, never abort the scan.
		info, err := sc.FS.Stat(path)
		if err != nil {
			sc.Log.WithError(err).WithField("path", path).Warn("skipping unreadable file")
			continue
		}

		batch = append(batch, store.NewDocument{
			Filename:     filepath.Base(path),
			Filepath:     path,
			Folder:       relativeFolder(root, path),
			LastModified: info.ModTime().Unix(),
		})
		if len(batch) >= batchSize {
			if err := sc.flush(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := sc.flush(batch); err != nil {
		return err
	}

	if progress != nil {
		progress(done, total)
	}
	sc.Log.WithFields(logrus.Fields{"root": root, "processed": done}).Info("scan complete")
	return nil
}

// collect recursively gathers regular-file paths in discovery order.
// Directory read failures propagate — unlike per-file stat failures they
// abort the scan.
func (sc *Scanner) collect(dir string, out *[]string) error {
	entries, err := sc.FS.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := sc.FS.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := sc.collect(path, out); err != nil {
				return err
			}
			continue
		}
		if entry.Mode().IsRegular() {
			*out = append(*out, path)
		}
	}
	return nil
}

func (sc *Scanner) flush(batch []store.NewDocument) error {
	if len(batch) == 0 {
		return nil
	}
	if _, err := sc.Store.InsertBatch(batch); err != nil {
		return fmt.Errorf("insert batch of %d: %w", len(batch), err)
	}
	sc.Log.WithField("count", len(batch)).Debug("inserted batch")
	return nil
}

// relativeFolder maps a file's directory to its path relative to the
// scan root, "" for files directly under the root.
func relativeFolder(root, path string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return ""
	}
	return rel
}
