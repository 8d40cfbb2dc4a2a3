package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"

	"github.com/mdspec/mdspec/spec"
)

// patch replaces raw[start:end] with text. Spans address the original raw
// bytes, never a re-serialization of the parsed tree, so prose and layout
// outside the touched spans survive untouched.
type patch struct {
	start, end int
	text       string
}

// rewriteFile runs the document at path and writes actual outputs back
// into its expected-output blocks. The entire read-execute-patch-write
// cycle holds an exclusive advisory lock scoped to the document path, so
// concurrent rewriters of the same document serialize their cycles. The
// write is temp-file plus rename: a failed cycle leaves the file as it
// was.
func (r *Runner) rewriteFile(ctx context.Context, path string, h Handler) (*Result, error) {
	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	defer lock.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, errs := spec.Parse(path, content)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	res, patches, err := r.run(ctx, doc, h)
	if err != nil {
		return res, err
	}

	patched := applyPatches(doc.Raw, patches)
	if patched == doc.Raw {
		return res, nil
	}

	if err := writeAtomic(path, []byte(patched)); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// lockPath derives the sidecar lock file for a document. Locking a sidecar
// instead of the document itself keeps the lock valid across the rename
// that replaces the document's inode.
func lockPath(path string) string {
	return path + ".lock"
}

// applyPatches applies patches in descending start order so earlier edits
// never invalidate later offsets.
func applyPatches(raw string, patches []patch) string {
	sorted := make([]patch, len(patches))
	copy(sorted, patches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start > sorted[j].start
	})

	out := raw
	for _, p := range sorted {
		out = out[:p.start] + p.text + out[p.end:]
	}
	return out
}

// writeAtomic writes content through a temp file in the same directory and
// renames it over path. Readers observe either the old bytes or the new
// ones, never a partial write.
func writeAtomic(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
