package client

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// SelectedFile is a user-chosen blob: a name and a way to read it once.
type SelectedFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// LocalFile selects a file from the local disk by path.
func LocalFile(path string) SelectedFile {
	return SelectedFile{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FilePicker exposes the files currently selected by the user.
type FilePicker interface {
	Files() []SelectedFile
}

// StatusDisplay shows a single status line, each call replacing the last.
type StatusDisplay interface {
	SetStatus(msg string)
}

// Alerter blocks the user with a message.
type Alerter interface {
	Alert(msg string)
}

// SelectFunc is the action bound to one rendered list entry.
type SelectFunc func(ctx context.Context) error

// ListDisplay renders the file list.
type ListDisplay interface {
	Clear()
	Append(name string, onSelect SelectFunc)
}

// Navigator follows a retrieval URL path, e.g. "/files/a.txt".
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Refresher reloads the displayed list.
type Refresher interface {
	Refresh(ctx context.Context) error
}
