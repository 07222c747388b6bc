package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/filedrop/internal/storage"
)

//go:embed webui
var webContent embed.FS

const (
	defaultMaxMemory = 10 << 20
	shutdownTimeout  = 5 * time.Second
)

// Server exposes a storage client over http.
type Server struct {
	store     storage.Client
	bind      string
	maxMemory int64
	handler   http.Handler
}

// New builds a server storing uploads in store.
func New(store storage.Client, bind string, maxMemory int64) (*Server, error) {
	if store == nil {
		return nil, errors.New("storage client not initialised")
	}
	if maxMemory <= 0 {
		maxMemory = defaultMaxMemory
	}
	s := &Server{store: store, bind: bind, maxMemory: maxMemory}
	staticFS, err := fs.Sub(webContent, "webui")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/files/", s.handleDownload)
	mux.HandleFunc("/files", s.handleList)
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	s.handler = mux
	return s, nil
}

// Handler returns the routing handler, useful for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	srv := &http.Server{
		Addr:    s.bind,
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	logger.Info("server stopped", zap.String("addr", srv.Addr))
	return nil
}

// sendErrorResponse writes {"error": message} with the given status code.
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := logutil.GetLogger(r.Context())
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(s.maxMemory); err != nil {
		logger.Warn("parse upload form failed", zap.Error(err))
		sendErrorResponse(w, "Error parsing upload form", http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		sendErrorResponse(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := storedName(header.Filename)
	if name == "" {
		sendErrorResponse(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	if err := s.store.Save(r.Context(), name, file); err != nil {
		logger.Error("save upload failed", zap.String("file", name), zap.Error(err))
		sendErrorResponse(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	logger.Info("file stored", zap.String("file", name), zap.Int64("size", header.Size))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("File uploaded successfully: " + name))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		sendErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	items, err := s.store.List(r.Context())
	if err != nil {
		logutil.GetLogger(r.Context()).Error("list files failed", zap.Error(err))
		sendErrorResponse(w, "Failed to read directory", http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(names)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		sendErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	if name == "" || strings.Contains(name, "..") || strings.Contains(name, "/") {
		sendErrorResponse(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	rc, info, err := s.store.Open(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		sendErrorResponse(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logutil.GetLogger(r.Context()).Error("open file failed", zap.String("file", name), zap.Error(err))
		sendErrorResponse(w, "Error accessing file", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.ModTime.IsZero() {
		w.Header().Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		logutil.GetLogger(r.Context()).Warn("write file failed", zap.String("file", name), zap.Error(err))
	}
}

// storedName keeps only the base name of a client supplied filename.
func storedName(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	name := path.Base(filename)
	switch name {
	case ".", "/", "..":
		return ""
	}
	return name
}
