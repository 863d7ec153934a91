// Package staging implements an in-memory staged file-edit cache for multiple
// independent agents. Agents propose exact-match text edits against shared
// files without touching disk; the cache detects cross-agent collisions and
// only commits an agent's edits once it can prove no collision exists.
package staging

import "fmt"

// OpKind identifies the type of a staged edit operation.
type OpKind int

const (
	// OpInsert splices new content before or after the target.
	OpInsert OpKind = iota
	// OpReplace replaces the target with new content.
	OpReplace
	// OpDelete removes the target.
	OpDelete
)

// String returns the lowercase name of the operation kind.
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// InsertPosition controls which side of the target an insert lands on.
type InsertPosition int

const (
	// After splices the new content immediately after the target (default).
	After InsertPosition = iota
	// Before splices the new content immediately before the target.
	Before
)

// String returns the lowercase name of the insert position.
func (p InsertPosition) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

// Operation is one staged edit. Operations are immutable once created;
// construct them with NewInsert, NewReplace, or NewDelete.
type Operation struct {
	Kind     OpKind
	Target   string
	Content  string
	Position InsertPosition // Insert only
}

// NewInsert creates an insert operation that splices content before or after
// the target string.
func NewInsert(target, content string, pos InsertPosition) Operation {
	return Operation{Kind: OpInsert, Target: target, Content: content, Position: pos}
}

// NewReplace creates a replace operation that overwrites the target with
// content. Empty content is equivalent to a delete.
func NewReplace(target, content string) Operation {
	return Operation{Kind: OpReplace, Target: target, Content: content}
}

// NewDelete creates a delete operation that removes the target.
func NewDelete(target string) Operation {
	return Operation{Kind: OpDelete, Target: target}
}

// Range is a half-open span [Start, End) of byte offsets into a specific
// content snapshot. Insert operations occupy a point (Start == End).
type Range struct {
	Start int
	End   int
}

// IsPoint reports whether the range is a zero-width insertion point.
func (r Range) IsPoint() bool {
	return r.Start == r.End
}

// Union returns the smallest range covering both r and other.
func (r Range) Union(other Range) Range {
	out := r
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Overlaps decides whether two ranges collide under point-aware semantics:
// a point touching a span's boundary collides, but two spans that merely
// touch at a boundary do not.
func (r Range) Overlaps(other Range) bool {
	switch {
	case r.IsPoint() && other.IsPoint():
		return r.Start == other.Start
	case r.IsPoint():
		return other.Start <= r.Start && r.Start <= other.End
	case other.IsPoint():
		return r.Start <= other.Start && other.Start <= r.End
	default:
		return r.Start < other.End && other.Start < r.End
	}
}
