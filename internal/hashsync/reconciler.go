// Package hashsync computes content hashes for unhashed registry records
// and converges metadata across duplicate files.
package hashsync

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/docregistry/docreg/internal/store"
)

// DefaultWorkers is the size of the hashing pool.
const DefaultWorkers = 4

// Reconciler hashes every record with a null content hash and runs
// metadata propagation after each success. Per-file I/O faults (missing,
// locked, unreadable) are expected in a live filesystem: they are logged
// and skipped, never escalated to the pool.
type Reconciler struct {
	Store   *store.Store
	Workers int
	Log     *logrus.Logger
}

// New returns a Reconciler with the default pool size.
func New(s *store.Store, log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{Store: s, Workers: DefaultWorkers, Log: log}
}

// Run processes all currently unhashed records and blocks until the pool
// drains. Safe to run concurrently with a scan — the two interleave
// arbitrarily over the shared store.
func (r *Reconciler) Run() error {
	refs, err := r.Store.Unhashed()
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	workers := r.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	jobs := make(chan store.UnhashedRef)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				r.process(ref)
			}
		}()
	}
	for _, ref := range refs {
		jobs <- ref
	}
	close(jobs)
	wg.Wait()
	return nil
}

// process hashes one file and propagates metadata across its duplicates.
// Every failure path is per-record: log and move on.
func (r *Reconciler) process(ref store.UnhashedRef) {
	hash, err := hashFile(ref.Path)
	if err != nil {
		r.Log.WithError(err).WithField("path", ref.Path).Debug("skipping unhashable file")
		return
	}
	if err := r.Store.SetHash(ref.ID, hash); err != nil {
		r.Log.WithError(err).WithField("id", ref.ID).Warn("persist hash failed")
		return
	}
	if err := r.Store.PropagateMetadata(hash, ref.ID); err != nil {
		r.Log.WithError(err).WithField("id", ref.ID).Warn("metadata propagation failed")
	}
}

// hashFile streams the file through SHA-256. io.Copy reads in fixed-size
// chunks, so memory use is independent of file size.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // safe to ignore

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
