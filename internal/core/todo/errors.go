package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("todo item not found")
	// ErrDuplicate is returned by List.Add when the GUID is already present.
	ErrDuplicate = errors.New("todo item already exists")
)

// ValidationError reports an item whose kind is unknown or whose required
// keys are missing. It is only produced by construction and parse.
type ValidationError struct {
	GUID    string   // set when the item was read from a list
	Kind    string   // kind as written, possibly unknown
	Missing []string // required keys that were absent or empty
	Err     error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.GUID != "" {
		fmt.Fprintf(&b, "todo item %q: ", e.GUID)
	}

	switch {
	case len(e.Missing) > 0 && e.Kind != "":
		fmt.Fprintf(&b, "%s item missing required field(s): %s", e.Kind, strings.Join(e.Missing, ", "))
	case len(e.Missing) > 0:
		fmt.Fprintf(&b, "missing required field(s): %s", strings.Join(e.Missing, ", "))
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("invalid item")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation on a GUID the list does not hold.
type NotFoundError struct {
	GUID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo item %q not found", e.GUID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError reports a document that is structurally invalid.
type ParseError struct {
	Path string // dotted location in the document, empty for the root
	Line int    // 1-based line when known
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse todo document")
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	fmt.Fprintf(&b, ": %s", e.Err)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError reports a failure reading or writing a todo file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s todo file %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
