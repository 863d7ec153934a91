package staging

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotExist signals that a file has no content on disk and no staged edits.
// Callers should test with errors.Is.
var ErrNotExist = errors.New("file does not exist")

// ErrEmptyTarget is returned when a caller tries to stage an operation with
// an empty target string.
var ErrEmptyTarget = errors.New("target must not be empty")

// TargetNotFoundError indicates the target string does not occur in the
// content the operation was validated or applied against.
type TargetNotFoundError struct {
	Path   string
	Target string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target %q not found in %s", e.Target, e.Path)
}

// AmbiguousTargetError indicates the target string occurs more than once, so
// the edit location cannot be determined. Count carries the occurrence count.
type AmbiguousTargetError struct {
	Path   string
	Target string
	Count  int
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf("target %q matches %d locations in %s, must match exactly one", e.Target, e.Count, e.Path)
}

// ConflictError blocks a flush. It carries every conflict found so the caller
// can present all collisions, not just the first. A ConflictError guarantees
// that no bytes were written by the failed call.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "flush blocked by conflicts"
	}
	parts := make([]string, 0, len(e.Conflicts))
	for i := range e.Conflicts {
		c := &e.Conflicts[i]
		parts = append(parts, fmt.Sprintf("%s: %s vs %s over [%d,%d)",
			c.Path, c.Agents[0], c.Agents[1], c.Range.Start, c.Range.End))
	}
	return fmt.Sprintf("flush blocked by %d conflict(s): %s", len(e.Conflicts), strings.Join(parts, "; "))
}
