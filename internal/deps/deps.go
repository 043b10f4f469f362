package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrNotConfigured reports an empty command setting.
	ErrNotConfigured = errors.New("command not configured")
	// ErrNotFound reports a command that is neither on PATH nor an executable file.
	ErrNotFound = errors.New("binary not found")
)

// Binary is an external command resolved to an absolute executable path.
type Binary struct {
	Command string
	Path    string
}

// Resolve locates command the way the process runner will: bare names go
// through PATH, anything containing a separator must be an executable file.
func Resolve(command string) (Binary, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return Binary{}, ErrNotConfigured
	}
	found, err := exec.LookPath(command)
	if err != nil {
		return Binary{Command: command}, fmt.Errorf("%w: %q", ErrNotFound, command)
	}
	abs, err := filepath.Abs(found)
	if err != nil {
		return Binary{Command: command}, fmt.Errorf("resolve %s: %w", found, err)
	}
	return Binary{Command: command, Path: abs}, nil
}
