package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	UploadPath   = "/upload"
	ListPath     = "/files"
	RetrievePath = "/files/"

	uploadField = "file"
	maxErrBody  = 4096
)

// API handles the storage service HTTP calls.
type API struct {
	host       string
	httpClient *http.Client
	userAgent  string
}

// Option customises an API.
type Option func(*API)

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.httpClient = c }
}

// WithTimeout bounds every request; zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(a *API) { a.httpClient.Timeout = d }
}

// New creates an API client for host. A missing scheme defaults to http.
func New(host string, opts ...Option) (*API, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("host must be provided")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	a := &API{
		host:       strings.TrimSuffix(u.String(), "/"),
		httpClient: &http.Client{},
		userAgent:  "filedrop",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Host returns the normalized base URL.
func (a *API) Host() string { return a.host }

// URL resolves a service path against the host without escaping it.
func (a *API) URL(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return a.host + p
}

func (a *API) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.URL(target), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)
	return req, nil
}

// Upload posts r as the multipart field "file" named name.
func (a *API) Upload(ctx context.Context, name string, r io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(writeFilePart(mw, name, r))
	}()
	// the writer goroutine must not outlive the caller's reader
	defer func() {
		pr.Close()
		<-done
	}()

	req, err := a.newRequest(ctx, http.MethodPost, UploadPath, pr)
	if err != nil {
		return &RequestError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "text/plain, application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return newStatusError("upload", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func writeFilePart(mw *multipart.Writer, name string, r io.Reader) error {
	partHeaders := textproto.MIMEHeader{}
	partHeaders.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, escapeQuotes(name)))
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	partHeaders.Set("Content-Type", ct)
	part, err := mw.CreatePart(partHeaders)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// ListFiles returns the stored file names in server order.
func (a *API) ListFiles(ctx context.Context) ([]string, error) {
	req, err := a.newRequest(ctx, http.MethodGet, ListPath, nil)
	if err != nil {
		return nil, &RequestError{Op: "list files", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Op: "list files", Err: err}
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return nil, newStatusError("list files", resp)
	}

	var files []string
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, &RequestError{Op: "list files", Err: fmt.Errorf("decode files: %w", err)}
	}
	return files, nil
}

// Download fetches a navigation target, a path relative to the host, into w.
func (a *API) Download(ctx context.Context, target string, w io.Writer) (int64, error) {
	req, err := a.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, &RequestError{Op: "download", Err: err}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, &RequestError{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return 0, newStatusError("download", resp)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &RequestError{Op: "download", Err: err}
	}
	return n, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

func newStatusError(op string, resp *http.Response) *RequestError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	return &RequestError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
