package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/xxxsen/filedrop/internal/config"
)

type gcsClient struct {
	gcs    *storage.Client
	bucket string
	prefix string
}

// NewGCSClient builds a storage client backed by a Google Cloud Storage bucket.
// Credentials come from the environment unless a credentials file is configured.
func NewGCSClient(ctx context.Context, cfg config.GCSConfig) (Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	gcs, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &gcsClient{gcs: gcs, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (g *gcsClient) Save(ctx context.Context, name string, r io.Reader) error {
	key := objectKey(g.prefix, name)
	wc := g.gcs.Bucket(g.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentTypeOf(name)
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write object gs://%s/%s: %w", g.bucket, key, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close object gs://%s/%s: %w", g.bucket, key, err)
	}
	return nil
}

func (g *gcsClient) List(ctx context.Context) ([]ObjectInfo, error) {
	query := &storage.Query{Delimiter: "/"}
	if g.prefix != "" {
		query.Prefix = strings.TrimSuffix(g.prefix, "/") + "/"
	}

	var out []ObjectInfo
	it := g.gcs.Bucket(g.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects in gs://%s: %w", g.bucket, err)
		}
		// synthetic directory entries only carry Prefix
		if attrs.Name == "" {
			continue
		}
		name, ok := keyName(g.prefix, attrs.Name)
		if !ok {
			continue
		}
		ct := attrs.ContentType
		if ct == "" {
			ct = contentTypeOf(name)
		}
		out = append(out, ObjectInfo{
			Name:        name,
			Size:        attrs.Size,
			ModTime:     attrs.Updated,
			ContentType: ct,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g *gcsClient) Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	key := objectKey(g.prefix, name)
	rdr, err := g.gcs.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil, fmt.Errorf("read object gs://%s/%s: %w", g.bucket, key, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("read object gs://%s/%s: %w", g.bucket, key, err)
	}
	info := &ObjectInfo{
		Name:        name,
		Size:        rdr.Attrs.Size,
		ModTime:     rdr.Attrs.LastModified,
		ContentType: rdr.Attrs.ContentType,
	}
	if info.ContentType == "" {
		info.ContentType = contentTypeOf(name)
	}
	return rdr, info, nil
}
