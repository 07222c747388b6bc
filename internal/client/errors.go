package client

import (
	"errors"
	"fmt"
)

// ErrNoFileSelected is the user input error raised when Upload runs with an
// empty picker.
var ErrNoFileSelected = errors.New("no file selected")

// RequestError reports a non-OK response (StatusCode set) or a transport
// failure (Err set).
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsStatus reports whether the server answered with a non-OK status, as
// opposed to the request never completing.
func (e *RequestError) IsStatus() bool {
	return e.Err == nil && e.StatusCode != 0
}
