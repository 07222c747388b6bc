package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/xxxsen/filedrop/internal/config"
)

const stagingDirName = ".staging"

type localClient struct {
	fs      afs.Service
	baseURL string
}

// NewLocalClient stores files flat inside cfg.Dir, creating it when missing.
func NewLocalClient(cfg config.LocalConfig) (Client, error) {
	if cfg.Dir == "" {
		return nil, errors.New("local storage dir is required")
	}
	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir %s: %w", cfg.Dir, err)
	}
	c := &localClient{fs: afs.New(), baseURL: url.ToFileURL(abs)}
	ctx := context.Background()
	ok, err := c.fs.Exists(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("stat storage dir %s: %w", abs, err)
	}
	if !ok {
		if err := c.fs.Create(ctx, c.baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", abs, err)
		}
	}
	return c, nil
}

// Save writes into a staging file first so a partial upload never shows up
// in List.
func (c *localClient) Save(ctx context.Context, name string, r io.Reader) error {
	staged := url.Join(c.baseURL, stagingDirName, uuid.NewString())
	if err := c.fs.Upload(ctx, staged, file.DefaultFileOsMode, r); err != nil {
		_ = c.fs.Delete(ctx, staged)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := c.fs.Move(ctx, staged, url.Join(c.baseURL, name)); err != nil {
		_ = c.fs.Delete(ctx, staged)
		return fmt.Errorf("move %s into place: %w", name, err)
	}
	return nil
}

func (c *localClient) List(ctx context.Context) ([]ObjectInfo, error) {
	objects, err := c.fs.List(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.baseURL, err)
	}
	out := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if obj.IsDir() {
			continue
		}
		out = append(out, ObjectInfo{
			Name:        obj.Name(),
			Size:        obj.Size(),
			ModTime:     obj.ModTime(),
			ContentType: contentTypeOf(obj.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *localClient) Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	target := url.Join(c.baseURL, name)
	ok, err := c.fs.Exists(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("open %s: %w", name, ErrNotFound)
	}
	obj, err := c.fs.Object(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if obj.IsDir() {
		return nil, nil, fmt.Errorf("open %s: is a directory: %w", name, ErrNotFound)
	}
	rc, err := c.fs.OpenURL(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return rc, &ObjectInfo{
		Name:        obj.Name(),
		Size:        obj.Size(),
		ModTime:     obj.ModTime(),
		ContentType: contentTypeOf(obj.Name()),
	}, nil
}
