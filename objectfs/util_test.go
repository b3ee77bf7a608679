package objectfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	fakeScheme = "ofs"
	fakeRoot   = "root"
)

type fakeObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// fakeStore is an in-memory StoreClient used to drive the reconciler
// and emulator tests. Objects are stored by name, without the data root.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]*fakeObject

	failDelete map[string]bool

	deleted   []string
	renamed   [][2]string
	listCalls int
}

var _ StoreClient = &fakeStore{}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:    map[string]*fakeObject{},
		failDelete: map[string]bool{},
	}
}

func (s *fakeStore) Scheme() string {
	return fakeScheme
}

func (s *fakeStore) DataRoot() string {
	return fakeRoot
}

func (s *fakeStore) hostScheme() string {
	return fakeScheme + "://" + fakeRoot + "/"
}

func (s *fakeStore) clientPath(name string) string {
	return s.hostScheme() + name
}

// objectName accepts both client paths and dataroot-prefixed keys.
func (s *fakeStore) objectName(p string) string {
	if strings.HasPrefix(p, s.hostScheme()) {
		return strings.TrimPrefix(p, s.hostScheme())
	}
	return strings.TrimPrefix(p, fakeRoot+"/")
}

func (s *fakeStore) put(name, contentType string, metadata map[string]string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = &fakeObject{data: data, contentType: contentType, metadata: metadata}
}

func (s *fakeStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *fakeStore) Exists(ctx context.Context, p string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.objects[s.objectName(p)]
	return found, nil
}

func (s *fakeStore) GetObject(ctx context.Context, p string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, found := s.objects[s.objectName(p)]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *fakeStore) CreateObject(ctx context.Context, key, contentType string, metadata map[string]string) (io.WriteCloser, error) {
	return &fakeWriter{store: s, name: s.objectName(key), contentType: contentType, metadata: metadata}, nil
}

func (s *fakeStore) List(ctx context.Context, p string, recursive, prefixBased bool) ([]FileStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++

	prefix := s.objectName(p)
	if !prefixBased {
		prefix = prefix + "/"
	}

	var names []string
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var entries []FileStatus
	for _, name := range names {
		entries = append(entries, s.statusLocked(name))
	}
	return entries, nil
}

func (s *fakeStore) DeleteObject(ctx context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.objectName(p)
	if s.failDelete[name] {
		return fmt.Errorf("injected delete failure for %s", name)
	}
	delete(s.objects, name)
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *fakeStore) Rename(ctx context.Context, src, dst string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from, to := s.objectName(src), s.objectName(dst)
	s.renamed = append(s.renamed, [2]string{from, to})
	if obj, found := s.objects[from]; found {
		s.objects[to] = obj
		delete(s.objects, from)
	}
	return true, nil
}

func (s *fakeStore) GetObjectMetadata(ctx context.Context, p string) (*FileStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.objectName(p)
	if _, found := s.objects[name]; !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	status := s.statusLocked(name)
	return &status, nil
}

func (s *fakeStore) statusLocked(name string) FileStatus {
	obj := s.objects[name]
	return FileStatus{
		Path:    s.clientPath(name),
		Size:    int64(len(obj.data)),
		IsDir:   obj.contentType == DefaultMarkers().DirContentType,
		ModTime: time.Unix(0, 0),
	}
}

type fakeWriter struct {
	store       *fakeStore
	name        string
	contentType string
	metadata    map[string]string
	buf         bytes.Buffer
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *fakeWriter) Close() error {
	w.store.put(w.name, w.contentType, w.metadata, w.buf.Bytes())
	return nil
}
