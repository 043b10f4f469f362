package walrus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProcessFailure marks a Walrus invocation that could not start or exited non-zero.
	ErrProcessFailure = errors.New("walrus process failure")
	// ErrDataFormat marks a Walrus response that could not be interpreted.
	ErrDataFormat = errors.New("walrus data format error")
)

// ProcessError reports a failed Walrus invocation. ExitCode is -1 when the
// process never started.
type ProcessError struct {
	Path     string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error uploading %s, code: %d", e.Path, e.ExitCode)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Stderr); out != "" {
		fmt.Fprintf(&b, "; stderr: %s", out)
	}
	if out := strings.TrimSpace(e.Stdout); out != "" {
		fmt.Fprintf(&b, "; stdout: %s", out)
	}
	return b.String()
}

func (e *ProcessError) Is(target error) bool { return target == ErrProcessFailure }

func (e *ProcessError) Unwrap() error { return e.Err }

// FormatError reports Walrus output that is not valid JSON or does not match a
// known response shape.
type FormatError struct {
	Path   string
	Output string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unexpected response from walrus for %s", e.Path)
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	fmt.Fprintf(&b, "; output: %q", strings.TrimSpace(e.Output))
	return b.String()
}

func (e *FormatError) Is(target error) bool { return target == ErrDataFormat }

func (e *FormatError) Unwrap() error { return e.Err }
