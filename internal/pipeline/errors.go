package pipeline

import (
	"errors"
	"fmt"
)

// ErrStructuralMismatch marks files that cannot be paired with metadata records.
var ErrStructuralMismatch = errors.New("structural mismatch")

// MismatchError describes a tier whose files do not line up with its records.
type MismatchError struct {
	Tier    string
	File    string
	Files   int
	Records int
	Reason  string
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("tier %s: %s (files=%d records=%d)", e.Tier, e.Reason, e.Files, e.Records)
	if e.File != "" {
		msg += ": " + e.File
	}
	return msg
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrStructuralMismatch
}
