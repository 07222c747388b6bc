package app

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/filedrop/internal/client"
	"github.com/xxxsen/filedrop/internal/config"
	"github.com/xxxsen/filedrop/internal/server"
	"github.com/xxxsen/filedrop/internal/storage"
)

// startService runs a local-disk service and points the global config at it.
func startService(t *testing.T) (storage.Client, *httptest.Server) {
	t.Helper()
	store, err := storage.NewLocalClient(config.LocalConfig{Dir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	srv, err := server.New(store, ":0", 0)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.Client.Host = ts.URL
	config.SetGlobal(cfg)
	t.Cleanup(func() { config.SetGlobal(nil) })
	return store, ts
}

func runCommand(t *testing.T, r IRunner) error {
	t.Helper()
	ctx := context.Background()
	if err := r.PreRun(ctx); err != nil {
		return err
	}
	if err := r.Run(ctx); err != nil {
		return err
	}
	return r.PostRun(ctx)
}

func writeLocal(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRunnerListHasCommands(t *testing.T) {
	assert.Equal(t, []string{"browse", "get", "ls", "serve", "upload"}, RunnerList())
	_, err := ResolveRunner("missing")
	assert.Error(t, err)
	assert.Panics(t, func() {
		RegisterRunner("ls", func() IRunner { return NewListCommand() })
	})
}

func TestUploadCommandRefreshesList(t *testing.T) {
	startService(t)
	var out bytes.Buffer
	cmd := NewUploadCommand()
	cmd.file = writeLocal(t, "a.txt", "hello")
	cmd.stdout = &out

	require.NoError(t, runCommand(t, cmd))
	assert.Equal(t, client.MsgUploadOK+"\n1. a.txt\n", out.String())
}

func TestUploadCommandWithoutFile(t *testing.T) {
	startService(t)
	var out, errOut bytes.Buffer
	cmd := NewUploadCommand()
	cmd.stdout = &out
	cmd.stderr = &errOut

	err := runCommand(t, cmd)
	require.ErrorIs(t, err, client.ErrNoFileSelected)
	assert.Equal(t, client.MsgSelectFile+"\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestUploadCommandMissingFile(t *testing.T) {
	startService(t)
	var out bytes.Buffer
	cmd := NewUploadCommand()
	cmd.file = filepath.Join(t.TempDir(), "nope.txt")
	cmd.stdout = &out

	require.Error(t, runCommand(t, cmd))
	assert.NotContains(t, out.String(), client.MsgUploadOK)
}

func TestListCommand(t *testing.T) {
	store, _ := startService(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "b.png", strings.NewReader("b")))
	require.NoError(t, store.Save(ctx, "a.txt", strings.NewReader("a")))

	var out bytes.Buffer
	cmd := NewListCommand()
	cmd.stdout = &out
	require.NoError(t, runCommand(t, cmd))
	assert.Equal(t, "1. a.txt\n2. b.png\n", out.String())
}

func TestGetCommand(t *testing.T) {
	store, _ := startService(t)
	require.NoError(t, store.Save(context.Background(), "a.txt", strings.NewReader("hello")))

	dir := t.TempDir()
	var out bytes.Buffer
	cmd := NewGetCommand()
	cmd.name = "a.txt"
	cmd.outDir = dir
	cmd.stdout = &out
	require.NoError(t, runCommand(t, cmd))

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Contains(t, out.String(), "saved ")
}

func TestGetCommandMissing(t *testing.T) {
	startService(t)
	dir := t.TempDir()
	cmd := NewGetCommand()
	cmd.name = "nope.txt"
	cmd.outDir = dir
	cmd.stdout = &bytes.Buffer{}

	err := runCommand(t, cmd)
	var reqErr *client.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 404, reqErr.StatusCode)
	_, statErr := os.Stat(filepath.Join(dir, "nope.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGetCommandRequiresName(t *testing.T) {
	startService(t)
	assert.Error(t, NewGetCommand().PreRun(context.Background()))
}

func TestBrowseCommand(t *testing.T) {
	store, _ := startService(t)
	require.NoError(t, store.Save(context.Background(), "a.txt", strings.NewReader("hello")))

	dir := t.TempDir()
	local := writeLocal(t, "b.txt", "bee")
	var out, errOut bytes.Buffer
	cmd := NewBrowseCommand()
	cmd.outDir = dir
	cmd.stdin = strings.NewReader("1\n9\nu\nu " + local + "\nq\n2\n")
	cmd.stdout = &out
	cmd.stderr = &errOut

	require.NoError(t, runCommand(t, cmd))

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	text := out.String()
	assert.Contains(t, text, "1. a.txt\n")
	assert.Contains(t, text, "download failed: no entry 9")
	assert.Contains(t, text, client.MsgUploadOK+"\n1. a.txt\n2. b.txt\n")
	assert.Equal(t, client.MsgSelectFile+"\n", errOut.String())

	// Input after q is never read, so b.txt is not downloaded.
	_, statErr := os.Stat(filepath.Join(dir, "b.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestServeCommandStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Storage.Local.Dir = filepath.Join(t.TempDir(), "data")
	config.SetGlobal(cfg)
	storage.SetDefaultClient(nil)
	t.Cleanup(func() {
		config.SetGlobal(nil)
		storage.SetDefaultClient(nil)
	})

	cmd := NewServeCommand()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, cmd.PreRun(ctx))
	assert.NotNil(t, storage.DefaultClient())
	assert.Equal(t, "127.0.0.1:0", cmd.bind)

	cancel()
	require.NoError(t, cmd.Run(ctx))
}

func TestNumberedListSelect(t *testing.T) {
	var out bytes.Buffer
	l := &numberedList{w: &out}
	var picked []string
	l.Append("x", func(ctx context.Context) error { picked = append(picked, "x"); return nil })
	l.Append("y", func(ctx context.Context) error { picked = append(picked, "y"); return nil })

	require.NoError(t, l.Select(context.Background(), 2))
	assert.Error(t, l.Select(context.Background(), 0))
	assert.Equal(t, []string{"y"}, picked)

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Equal(t, "1. x\n2. y\n", out.String())
}

func TestNewSessionRequiresHost(t *testing.T) {
	_, err := newSession(sessionOptions{host: " "})
	assert.ErrorIs(t, err, errNoHost)
}
