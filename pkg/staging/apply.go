package staging

import "strings"

// applyOp applies a single operation to content and returns the new content
// along with the affected span in the NEW string (the inserted or replacement
// text, or a zero-width marker at the deletion point). The target is located
// at its first occurrence; if absent, a TargetNotFoundError is returned.
// Callers are expected to have validated uniqueness at stage time.
func applyOp(path, content string, op Operation) (string, Range, error) {
	i := strings.Index(content, op.Target)
	if i < 0 {
		return "", Range{}, &TargetNotFoundError{Path: path, Target: op.Target}
	}

	switch op.Kind {
	case OpInsert:
		pos := i
		if op.Position == After {
			pos = i + len(op.Target)
		}
		out := content[:pos] + op.Content + content[pos:]
		return out, Range{Start: pos, End: pos + len(op.Content)}, nil
	case OpReplace:
		out := content[:i] + op.Content + content[i+len(op.Target):]
		return out, Range{Start: i, End: i + len(op.Content)}, nil
	case OpDelete:
		out := content[:i] + content[i+len(op.Target):]
		return out, Range{Start: i, End: i}, nil
	default:
		return "", Range{}, &TargetNotFoundError{Path: path, Target: op.Target}
	}
}

// rangeOf computes the span of content the operation affects, measured
// against the given (pre-edit) content. Inserts occupy a point, replaces and
// deletes the target span. The second return is false when the target cannot
// be located; such operations are excluded from conflict analysis.
func rangeOf(content string, op Operation) (Range, bool) {
	i := strings.Index(content, op.Target)
	if i < 0 {
		return Range{}, false
	}

	switch op.Kind {
	case OpInsert:
		pos := i
		if op.Position == After {
			pos = i + len(op.Target)
		}
		return Range{Start: pos, End: pos}, true
	default:
		return Range{Start: i, End: i + len(op.Target)}, true
	}
}

// Resolve folds a pending log over a base snapshot in staging order,
// producing one agent's private view of the file. Resolve is deterministic
// and pure; an empty log returns the base unchanged.
func Resolve(path, base string, log []Operation) (string, error) {
	content := base
	for _, op := range log {
		next, _, err := applyOp(path, content, op)
		if err != nil {
			return "", err
		}
		content = next
	}
	return content, nil
}
