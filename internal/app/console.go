package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/filedrop/internal/client"
)

// Terminal renditions of the page elements the client handlers drive.

type pathPicker struct {
	path string
}

func (p pathPicker) Files() []client.SelectedFile {
	if strings.TrimSpace(p.path) == "" {
		return nil
	}
	return []client.SelectedFile{client.LocalFile(p.path)}
}

type lineStatus struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *lineStatus) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, msg)
}

type lineAlerter struct {
	w io.Writer
}

func (a lineAlerter) Alert(msg string) {
	fmt.Fprintln(a.w, msg)
}

type listEntry struct {
	name     string
	onSelect client.SelectFunc
}

// numberedList prints each entry as "<n>. <name>" and keeps the select
// actions so they can be triggered by number.
type numberedList struct {
	mu      sync.Mutex
	w       io.Writer
	entries []listEntry
}

func (l *numberedList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *numberedList) Append(name string, onSelect client.SelectFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, listEntry{name: name, onSelect: onSelect})
	fmt.Fprintf(l.w, "%d. %s\n", len(l.entries), name)
}

func (l *numberedList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Select runs the action of the 1-based entry n.
func (l *numberedList) Select(ctx context.Context, n int) error {
	l.mu.Lock()
	if n < 1 || n > len(l.entries) {
		count := len(l.entries)
		l.mu.Unlock()
		return fmt.Errorf("no entry %d, list has %d", n, count)
	}
	fn := l.entries[n-1].onSelect
	l.mu.Unlock()
	return fn(ctx)
}

// downloadNavigator follows retrieval targets by saving the response into dir,
// the way a browser hands a navigation over to its download manager.
type downloadNavigator struct {
	api *client.API
	dir string
	w   io.Writer
}

func (n *downloadNavigator) Navigate(ctx context.Context, target string) error {
	logger := logutil.GetLogger(ctx)
	name := filepath.Base(filepath.FromSlash(strings.TrimPrefix(target, client.RetrievePath)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("cannot derive file name from %s", target)
	}
	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return fmt.Errorf("ensure dest dir %s: %w", n.dir, err)
	}
	dest := filepath.Join(n.dir, name)
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create dest %s: %w", dest, err)
	}

	size, err := n.api.Download(ctx, target, out)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		logger.Error("download failed", zap.String("target", target), zap.Error(err))
		return err
	}

	logger.Info("file downloaded",
		zap.String("target", target),
		zap.String("dest", dest),
		zap.Int64("size", size),
	)
	fmt.Fprintf(n.w, "saved %s (%d bytes)\n", dest, size)
	return nil
}

// session wires the client handlers to terminal collaborators.
type session struct {
	api        *client.API
	list       *numberedList
	downloader *client.Downloader
	lister     *client.Lister
	uploader   *client.Uploader
	status     client.StatusDisplay
	alerter    client.Alerter
}

type sessionOptions struct {
	host    string
	timeout time.Duration
	file    string
	outDir  string
	stdout  io.Writer
	stderr  io.Writer
}

func newSession(opts sessionOptions) (*session, error) {
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}
	if strings.TrimSpace(opts.host) == "" {
		return nil, errNoHost
	}
	var apiOpts []client.Option
	if opts.timeout > 0 {
		apiOpts = append(apiOpts, client.WithTimeout(opts.timeout))
	}
	api, err := client.New(opts.host, apiOpts...)
	if err != nil {
		return nil, err
	}
	if opts.outDir == "" {
		opts.outDir = "."
	}

	s := &session{
		api:     api,
		list:    &numberedList{w: opts.stdout},
		status:  &lineStatus{w: opts.stdout},
		alerter: lineAlerter{w: opts.stderr},
	}
	s.downloader = client.NewDownloader(&downloadNavigator{api: api, dir: opts.outDir, w: opts.stdout})
	s.lister = client.NewLister(api, s.list, s.downloader)
	s.uploader = s.uploaderFor(opts.file)
	return s, nil
}

// uploaderFor builds an uploader whose picker holds path and whose success
// refreshes this session's list.
func (s *session) uploaderFor(path string) *client.Uploader {
	return client.NewUploader(s.api, pathPicker{path: path}, s.status, s.alerter, s.lister)
}

var errNoHost = errors.New("client host is not configured")
