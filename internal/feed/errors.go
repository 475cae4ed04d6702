package feed

import (
	"errors"
	"fmt"
)

// ErrEmptyBody is wrapped by FetchError when the server answered 2xx without content
var ErrEmptyBody = errors.New("empty response body")

// FetchError reports a feed that could not be retrieved: network failure, timeout,
// non-2xx status or an empty body.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a feed document that is not well-formed XML or could not be
// read as RSS or Atom.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports an entry missing a field required to build a post
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry has no usable %s", e.Field)
}
