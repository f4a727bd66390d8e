package domain

import (
	"fmt"
	"runtime/debug"
)

// Failure is implemented by every fatal build error.
type Failure interface {
	error
	Name() string
	Details() *Fault
}

// Fault holds the fields shared by the build error types. The stack is
// captured when the error is constructed.
type Fault struct {
	Reason string
	Err    error
	stack  []byte
}

func newFault(reason string, err error) Fault {
	return Fault{Reason: reason, Err: err, stack: debug.Stack()}
}

// Details exposes the shared fault fields.
func (f *Fault) Details() *Fault { return f }

// Stack returns the goroutine stack recorded at construction.
func (f *Fault) Stack() []byte { return f.stack }

func (f *Fault) Unwrap() error { return f.Err }

func (f *Fault) message(name, subject string) string {
	msg := name
	if subject != "" {
		msg += " " + subject
	}
	if f.Reason != "" {
		msg += ": " + f.Reason
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// ParseError reports malformed front matter or body content in a source file.
type ParseError struct {
	Fault
	Path string
}

func NewParseError(path, reason string, err error) *ParseError {
	return &ParseError{Fault: newFault(reason, err), Path: path}
}

func (e *ParseError) Name() string { return "ParseError" }

func (e *ParseError) Error() string {
	return e.message(e.Name(), quoted(e.Path))
}

// LayoutError reports a missing layout or a layout without a usable body placeholder.
type LayoutError struct {
	Fault
	Layout string
}

func NewLayoutError(layout, reason string, err error) *LayoutError {
	return &LayoutError{Fault: newFault(reason, err), Layout: layout}
}

func (e *LayoutError) Name() string { return "LayoutError" }

func (e *LayoutError) Error() string {
	return e.message(e.Name(), quoted(e.Layout))
}

// RenderError reports a template compile or execute failure for a node.
type RenderError struct {
	Fault
	NodeID string
}

func NewRenderError(nodeID, reason string, err error) *RenderError {
	return &RenderError{Fault: newFault(reason, err), NodeID: nodeID}
}

func (e *RenderError) Name() string { return "RenderError" }

func (e *RenderError) Error() string {
	return e.message(e.Name(), quoted(e.NodeID))
}

// IOError reports a read, write or mkdir failure.
type IOError struct {
	Fault
	Path string
	Op   string
}

func NewIOError(op, path string, err error) *IOError {
	return &IOError{Fault: newFault(op+" failed", err), Path: path, Op: op}
}

func (e *IOError) Name() string { return "IOError" }

func (e *IOError) Error() string {
	return e.message(e.Name(), quoted(e.Path))
}

func quoted(value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%q", value)
}

var (
	_ Failure = (*ParseError)(nil)
	_ Failure = (*LayoutError)(nil)
	_ Failure = (*RenderError)(nil)
	_ Failure = (*IOError)(nil)
)
