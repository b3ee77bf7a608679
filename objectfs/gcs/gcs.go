// Package gcs implements the objectfs StoreClient on a Google Cloud
// Storage bucket. The bucket is the data root; object names are the
// client paths with the host scheme stripped.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/flatstore/objectfs/objectfs"
)

type Modifier func(o *Options) error

func WithScheme(scheme string) Modifier {
	return func(o *Options) error {
		if scheme == "" || strings.Contains(scheme, ":") {
			return fmt.Errorf("invalid scheme %q - must be a bare scheme name", scheme)
		}
		o.scheme = scheme
		return nil
	}
}

func WithDirContentType(contentType string) Modifier {
	return func(o *Options) error {
		o.dirContentType = contentType
		return nil
	}
}

func WithCredentialsFile(path string) Modifier {
	return func(o *Options) error {
		o.clientOptions = append(o.clientOptions, option.WithCredentialsFile(path))
		return nil
	}
}

func WithCredentialsJSON(json []byte) Modifier {
	return func(o *Options) error {
		o.clientOptions = append(o.clientOptions, option.WithCredentialsJSON(json))
		return nil
	}
}

type Options struct {
	scheme         string
	dirContentType string

	clientOptions []option.ClientOption
}

func DefaultOptions() Options {
	return Options{
		scheme:         "ofs",
		dirContentType: objectfs.DefaultMarkers().DirContentType,
	}
}

// Client implements objectfs.StoreClient against a single GCS bucket.
type Client struct {
	gcs *storage.Client
	bkt *storage.BucketHandle

	scheme         string
	bucket         string
	dirContentType string
}

var _ objectfs.StoreClient = &Client{}

func New(ctx context.Context, bucket string, mods ...Modifier) (*Client, error) {
	options := DefaultOptions()
	for _, m := range mods {
		if err := m(&options); err != nil {
			return nil, err
		}
	}
	if bucket == "" {
		return nil, fmt.Errorf("incorrect API usage - need to provide a bucket name")
	}

	gcs, err := storage.NewClient(ctx, options.clientOptions...)
	if err != nil {
		return nil, err
	}

	return &Client{
		gcs:            gcs,
		bkt:            gcs.Bucket(bucket),
		scheme:         options.scheme,
		bucket:         bucket,
		dirContentType: options.dirContentType,
	}, nil
}

func (c *Client) Close() error {
	return c.gcs.Close()
}

func (c *Client) Scheme() string {
	return c.scheme
}

func (c *Client) DataRoot() string {
	return c.bucket
}

func (c *Client) hostScheme() string {
	return c.scheme + "://" + c.bucket + "/"
}

func (c *Client) clientPath(name string) string {
	return c.hostScheme() + name
}

// objectName normalizes a client path or a dataroot-prefixed key into
// the bare object name within the bucket.
func (c *Client) objectName(p string) string {
	if strings.HasPrefix(p, c.hostScheme()) {
		return strings.TrimPrefix(p, c.hostScheme())
	}
	if strings.HasPrefix(p, c.bucket+"/") {
		return strings.TrimPrefix(p, c.bucket+"/")
	}
	return strings.TrimPrefix(p, "/")
}

func (c *Client) status(attrs *storage.ObjectAttrs) objectfs.FileStatus {
	return objectfs.FileStatus{
		Path:    c.clientPath(attrs.Name),
		Size:    attrs.Size,
		IsDir:   attrs.ContentType == c.dirContentType,
		ModTime: attrs.Updated,
	}
}

func (c *Client) Exists(ctx context.Context, p string) (bool, error) {
	_, err := c.bkt.Object(c.objectName(p)).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) GetObject(ctx context.Context, p string) (io.ReadCloser, error) {
	r, err := c.bkt.Object(c.objectName(p)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", objectfs.ErrNotFound, p)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Client) CreateObject(ctx context.Context, key, contentType string, metadata map[string]string) (io.WriteCloser, error) {
	w := c.bkt.Object(c.objectName(key)).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = metadata
	return w, nil
}

func (c *Client) List(ctx context.Context, p string, recursive, prefixBased bool) ([]objectfs.FileStatus, error) {
	prefix := c.objectName(p)
	// Directory-style listing enumerates children; prefix-based listing
	// takes the raw prefix, so the entry at p itself is included.
	if !prefixBased && prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	var entries []objectfs.FileStatus
	it := c.bkt.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Prefix != "" {
			// Synthetic entry standing for a nested name prefix.
			entries = append(entries, objectfs.FileStatus{
				Path:  c.clientPath(strings.TrimSuffix(attrs.Prefix, "/")),
				IsDir: true,
			})
			continue
		}
		entries = append(entries, c.status(attrs))
	}
	return entries, nil
}

func (c *Client) DeleteObject(ctx context.Context, p string) error {
	err := c.bkt.Object(c.objectName(p)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		// Already gone. Deletes are idempotent.
		return nil
	}
	return err
}

// Rename emulates a key-level rename as copy plus delete of the source.
// GCS has no native rename; the copy is atomic, the source delete is
// not, so a crash can leave both keys behind.
func (c *Client) Rename(ctx context.Context, src, dst string) (bool, error) {
	srcObj := c.bkt.Object(c.objectName(src))
	dstObj := c.bkt.Object(c.objectName(dst))

	if _, err := dstObj.CopierFrom(srcObj).Run(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, fmt.Errorf("%w: %s", objectfs.ErrNotFound, src)
		}
		return false, err
	}
	if err := srcObj.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return false, err
	}
	return true, nil
}

func (c *Client) GetObjectMetadata(ctx context.Context, p string) (*objectfs.FileStatus, error) {
	attrs, err := c.bkt.Object(c.objectName(p)).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", objectfs.ErrNotFound, p)
	}
	if err != nil {
		return nil, err
	}
	status := c.status(attrs)
	return &status, nil
}
