package staging

import (
	"fmt"
	"sort"
)

// Annotation marks the span one agent's operation produced in a merged view.
// The range is measured in the merged output string, not the base snapshot.
type Annotation struct {
	Agent string
	Kind  OpKind
	Range Range
}

// MergedView produces a single unified view of path with every agent's
// pending edits applied, each annotated by author. Operations are ordered
// descending by base-range start and applied back-to-front, so applying one
// never shifts the offsets of those not yet applied. Annotation spans are
// kept in final-output coordinates: the inserted or replacement text, or a
// zero-width marker at a deletion point.
//
// The view is advisory and read-only. It does not require absence of
// conflicts: overlapping edits may produce surprising output, and an
// operation whose target has been consumed by an already-applied edit is
// skipped. Conflicts must be resolved before flush, never silently merged.
func (c *Cache) MergedView(path string) (string, []Annotation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.base(path)
	if err != nil {
		return "", nil, err
	}
	if !e.exists {
		return "", nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}

	var ranged []rangedOp
	for _, agent := range sortedKeys(c.pending) {
		for _, op := range c.pending[agent][path] {
			if r, ok := rangeOf(e.content, op); ok {
				ranged = append(ranged, rangedOp{agent: agent, op: op, r: r})
			}
		}
	}
	sort.SliceStable(ranged, func(i, j int) bool {
		return ranged[i].r.Start > ranged[j].r.Start
	})

	content := e.content
	var annotations []Annotation
	for _, ro := range ranged {
		next, span, applyErr := applyOp(path, content, ro.op)
		if applyErr != nil {
			continue
		}
		// Everything already annotated sits at or past this op's end, so a
		// length change here shifts those spans.
		delta := len(next) - len(content)
		for i := range annotations {
			if annotations[i].Range.Start >= ro.r.End {
				annotations[i].Range.Start += delta
				annotations[i].Range.End += delta
			}
		}
		content = next
		annotations = append(annotations, Annotation{
			Agent: ro.agent,
			Kind:  ro.op.Kind,
			Range: span,
		})
	}
	return content, annotations, nil
}
