// Package planerr defines the fatal error types of a resolution request.
// Any of them aborts the request; no partial plan is ever produced.
package planerr

import (
	"fmt"
	"strings"
)

// maxQuoted bounds how much offending content is quoted in an error message.
// The full content stays available on the error value.
const maxQuoted = 2048

// ParseError reports malformed JSON or JSON-lines input.
type ParseError struct {
	// Source names the input ("nextest list", "artifact manifest").
	Source string

	// Line is the 1-based line number, or 0 when the whole document is at fault.
	Line int

	// Content is the raw offending text.
	Content string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	where := e.Source
	if e.Line > 0 {
		where = fmt.Sprintf("%s line %d", e.Source, e.Line)
	}
	return fmt.Sprintf("failed to parse %s: %v\ncontent: %s", where, e.Err, quote(e.Content))
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports well-formed JSON that lacks an expected key.
type SchemaError struct {
	Source string

	// Key is the dotted path of the missing key.
	Key string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Source, e.Key)
}

// ProcessError reports an invocation that failed to spawn or exited non-zero.
type ProcessError struct {
	// Command is the rendered command line.
	Command string

	// ExitCode is -1 when the process never produced one.
	ExitCode int

	Stdout string
	Stderr string

	// Err is the infrastructure error, if any.
	Err error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	var b strings.Builder
	if e.Err != nil {
		fmt.Fprintf(&b, "command %q failed: %v", e.Command, e.Err)
	} else {
		fmt.Fprintf(&b, "command %q exited with status %d", e.Command, e.ExitCode)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, "\nstderr: %s", quote(e.Stderr))
	}
	return b.String()
}

// Unwrap returns the infrastructure error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

func quote(s string) string {
	if len(s) <= maxQuoted {
		return s
	}
	return s[:maxQuoted] + fmt.Sprintf("...[%d bytes truncated]", len(s)-maxQuoted)
}
