package main

import "fmt"

// ErrorKind classifies a per-post pipeline failure for reporting.
type ErrorKind string

const (
	ErrorKindParse ErrorKind = "parse"
	ErrorKindWrite ErrorKind = "write"
	ErrorKindFatal ErrorKind = "fatal"
)

// ParseError reports malformed or missing post data.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing post: field %q %s", e.Field, e.Reason)
}

// WriteError reports an I/O or precondition failure while producing output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}
