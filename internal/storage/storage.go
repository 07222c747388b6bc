package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/xxxsen/filedrop/internal/config"
)

// ErrNotFound is returned by Open when no object exists under the name.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes a stored file.
type ObjectInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Client abstracts the subset of object store operations the service needs.
type Client interface {
	Save(ctx context.Context, name string, r io.Reader) error
	List(ctx context.Context) ([]ObjectInfo, error)
	Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error)
}

var (
	defaultClient Client
)

// SetDefaultClient sets the global storage client used by the application.
func SetDefaultClient(c Client) {
	defaultClient = c
}

// DefaultClient returns the global storage client if one has been configured.
func DefaultClient() Client {
	return defaultClient
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Client, error) {
	switch cfg.Driver {
	case config.DriverLocal, "":
		return NewLocalClient(cfg.Local)
	case config.DriverS3:
		return NewS3Client(ctx, cfg.S3)
	case config.DriverGCS:
		return NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}

// keyName strips prefix from key and reports whether the remainder is a
// plain file name directly under the prefix.
func keyName(prefix, key string) (string, bool) {
	if prefix != "" {
		p := strings.TrimSuffix(prefix, "/") + "/"
		if !strings.HasPrefix(key, p) {
			return "", false
		}
		key = strings.TrimPrefix(key, p)
	}
	if key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}
