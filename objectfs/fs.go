package objectfs

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/flatstore/objectfs/lib/logger"
	"github.com/flatstore/objectfs/lib/multierror"
)

const defaultContentType = "application/octet-stream"

// dataOriginKey and dataOriginValue tag directory marker objects, so a
// recovery pass can tell job output roots apart from foreign objects.
const (
	dataOriginKey   = "Data-Origin"
	dataOriginValue = "objectfs"
)

// FileSystem presents the hierarchical, rename-based filesystem model
// the compute framework expects on top of a flat object store.
//
// The commit protocol of the framework - write into an attempt scoped
// temp directory, then rename into place - is satisfied without any
// rename: Create folds the attempt id into the final key, so every
// attempt writes to a distinct, already-final location, and the rename
// the framework issues later has nothing left to move.
//
// All operations are stateless: each is a pure function of the input
// path plus at most a couple of store round trips, so a FileSystem is
// safe for concurrent use.
type FileSystem struct {
	store StoreClient
	keyer *Keyer
	log   logger.Logger

	options Options
}

// Scheme returns the URI scheme served by the backing store client.
func (f *FileSystem) Scheme() string {
	return f.store.Scheme()
}

// HostScheme returns the "scheme://authority/" prefix paths are rooted at.
func (f *FileSystem) HostScheme() string {
	return f.keyer.hostScheme
}

// Exists reports whether an object exists at the given path.
func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	f.log.Debugf("exists %s", p)
	return f.store.Exists(ctx, p)
}

// IsDirectory always reports false. There are no directories in the
// object store: directory behavior is an emergent property of marker
// objects combined with prefix listings, not a stored attribute.
func (f *FileSystem) IsDirectory(p string) bool {
	f.log.Debugf("is directory: %s", p)
	return false
}

// IsFile always reports true, the counterpart of IsDirectory.
func (f *FileSystem) IsFile(p string) bool {
	f.log.Debugf("is file: %s", p)
	return true
}

// Open returns a reader over the object at the given path.
func (f *FileSystem) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	f.log.Debugf("open: %s", p)
	return f.store.GetObject(ctx, p)
}

// Create opens a writer to the object named by p, placing the content
// directly at its final key.
//
// Paths under the commit protocol have the attempt id folded into the
// key, so a create of
//
//	.../out/_temporary/0/_temporary/attempt_20160313_0000_m_000019_0/part-r-00019.csv
//
// writes data/out/part-r-00019.csv-20160313_0000_m_000019_0. The job
// success sentinel is job-global rather than attempt-scoped and is
// written under its own name unmodified.
//
// The returned writer is single use; closing it finalizes the object.
func (f *FileSystem) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	metricOps.WithLabelValues("create").Inc()
	fold := path.Base(p) != f.keyer.markers.SuccessFile
	key, err := f.keyer.Translate(p, fold)
	if err != nil {
		return nil, err
	}
	f.log.Debugf("create: %s as %s", p, key)
	return f.store.CreateObject(ctx, key, defaultContentType, nil)
}

// Rename moves src to dst.
//
// Renames of scratch locations are reported successful without touching
// the store: objects are created under their final key, so nothing
// physical ever exists under the temp directory to be moved. Renames of
// paths outside the commit protocol are forwarded to the store.
func (f *FileSystem) Rename(ctx context.Context, src, dst string) (bool, error) {
	metricOps.WithLabelValues("rename").Inc()
	f.log.Debugf("rename from %s to %s", src, dst)
	key, err := f.keyer.Translate(src, true)
	if err != nil {
		return false, err
	}
	if strings.Contains(key, f.keyer.markers.TempDir) {
		metricNoops.WithLabelValues("rename").Inc()
		return true, nil
	}
	if ok, err := f.store.Exists(ctx, src); err == nil && ok {
		f.log.Debugf("rename source %s exists", src)
	}
	return f.store.Rename(ctx, src, dst)
}

// Delete removes the object named by p, and - since a logical path may
// denote a marker object plus any number of descendant objects - every
// entry under it.
//
// Deletes under the temp directory report success without touching the
// store. When the leaf is an attempt name, entries are matched by name
// suffix over the parent listing, covering keys the attempt id was
// folded into. Individual key deletes are best effort: failures are
// logged but do not abort the rest, and the operation reports success
// once every delete has been attempted, so a retry by the framework
// converges.
func (f *FileSystem) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	metricOps.WithLabelValues("delete").Inc()
	key, err := f.keyer.Translate(p, true)
	if err != nil {
		return false, err
	}
	f.log.Debugf("delete: %s recursive %v key %s", p, recursive, key)
	if strings.Contains(key, f.keyer.markers.TempDir) {
		metricNoops.WithLabelValues("delete").Inc()
		return true, nil
	}

	var victims []FileStatus
	leaf := path.Base(p)
	if strings.HasPrefix(leaf, f.keyer.markers.AttemptPrefix) {
		entries, err := f.store.List(ctx, parentPath(key), true, true)
		if err != nil {
			return false, err
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), leaf) {
				victims = append(victims, entry)
			}
		}
	} else {
		entries, err := f.store.List(ctx, key, true, true)
		if err != nil {
			return false, err
		}
		// Descendants only: "out/part-1" is under "out", "out2" is not,
		// even though both share the string prefix.
		prefix := p
		if !strings.HasSuffix(prefix, "/") {
			prefix = prefix + "/"
		}
		for _, entry := range entries {
			if entry.Path == p || strings.HasPrefix(entry.Path, prefix) {
				victims = append(victims, entry)
			}
		}
	}

	if err := f.deleteAll(ctx, victims); err != nil {
		f.log.Warnf("delete %s: some keys could not be removed: %v", p, err)
	}
	return true, nil
}

// deleteAll issues the key deletes for one recursive delete, a few at a
// time. The victim set comes from a single listing snapshot; ordering
// between the deletes is not significant.
func (f *FileSystem) deleteAll(ctx context.Context, victims []FileStatus) error {
	var g errgroup.Group
	g.SetLimit(f.options.deleteParallelism)

	var mu sync.Mutex
	var errs []error
	for _, victim := range victims {
		victim := victim
		g.Go(func() error {
			f.log.Debugf("deleting %s", victim.Path)
			if err := f.store.DeleteObject(ctx, victim.Path); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			metricDeletedKeys.Inc()
			return nil
		})
	}
	g.Wait()
	return multierror.New(errs)
}

// Mkdirs emulates directory creation.
//
// The only path shape with a physical effect is the framework
// initializing a new job's scratch area, a path whose immediate parent
// is the temp directory. That writes a zero-byte directory marker at
// the job's logical output root, which lets later existence and listing
// checks observe the root before any task has produced output, and lets
// a recovery pass tell "job started" apart from "job never ran". Every
// other shape is a pure success: the framework's directory concept has
// no other physical representation.
func (f *FileSystem) Mkdirs(ctx context.Context, p string) (bool, error) {
	metricOps.WithLabelValues("mkdirs").Inc()
	f.log.Debugf("mkdirs: %s", p)
	if path.Base(path.Dir(p)) != f.keyer.markers.TempDir {
		metricNoops.WithLabelValues("mkdirs").Inc()
		return true, nil
	}
	key, err := f.keyer.Translate(p, true)
	if err != nil {
		return false, err
	}
	root := parentPath(key)
	f.log.Debugf("creating directory marker %s", root)
	w, err := f.store.CreateObject(ctx, root, f.keyer.markers.DirContentType, map[string]string{
		dataOriginKey: dataOriginValue,
	})
	if err != nil {
		return false, err
	}
	if err := w.Close(); err != nil {
		return false, err
	}
	return true, nil
}

// Stat resolves the entry at p, failing with ErrNotFound when no object
// exists there.
func (f *FileSystem) Stat(ctx context.Context, p string) (*FileStatus, error) {
	f.log.Debugf("stat: %s", p)
	return f.store.GetObjectMetadata(ctx, p)
}

// List enumerates the entries visible at p.
//
// Scratch content is never user visible: any path under the temp
// directory lists empty. A plain object lists as itself, without a
// store listing round trip. A directory marker - or an absent path when
// the caller asked for prefix-based listing - is expanded through a
// prefix listing of the store.
func (f *FileSystem) List(ctx context.Context, p string, filter Filter, prefixBased bool) ([]FileStatus, error) {
	metricOps.WithLabelValues("list").Inc()
	f.log.Debugf("list: %s, prefix based %v", p, prefixBased)
	if strings.Contains(p, f.keyer.markers.TempDir) {
		return nil, nil
	}

	status, err := f.store.GetObjectMetadata(ctx, p)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		f.log.Debugf("%s not found, trying to list", p)
		status = nil
	}

	var entries []FileStatus
	switch {
	case (status != nil && status.IsDir) || (status == nil && prefixBased):
		entries, err = f.store.List(ctx, p, false, prefixBased)
		if err != nil {
			return nil, err
		}
	case status != nil:
		entries = []FileStatus{*status}
	}
	return filterEntries(entries, filter), nil
}

func filterEntries(entries []FileStatus, filter Filter) []FileStatus {
	if filter == nil {
		return entries
	}
	var result []FileStatus
	for _, entry := range entries {
		if filter(entry.Path) {
			result = append(result, entry)
		}
	}
	return result
}
