package staging

import "github.com/google/uuid"

// Conflict records a pair of different agents' staged operations whose
// affected ranges, measured against the shared base snapshot, overlap.
// Conflicts are recomputed on demand and never persisted.
type Conflict struct {
	ID     string
	Path   string
	Agents [2]string
	Ops    [2]Operation
	// Range is the union of the two colliding ranges in the base snapshot.
	Range Range
}

// Involves reports whether the conflict names the given agent.
func (c *Conflict) Involves(agent string) bool {
	return c.Agents[0] == agent || c.Agents[1] == agent
}

// rangedOp is one staged operation with its base-relative range attached.
type rangedOp struct {
	agent string
	op    Operation
	r     Range
}

// conflictsLocked finds every cross-agent collision on path. Ranges are
// computed against the base snapshot, not any virtual view; operations whose
// target cannot be located in the base are excluded from the analysis.
// Same-agent overlaps are sequential by construction and never reported.
// Caller holds c.mu.
func (c *Cache) conflictsLocked(path string) ([]Conflict, error) {
	e, err := c.base(path)
	if err != nil {
		return nil, err
	}

	var ranged []rangedOp
	for _, agent := range sortedKeys(c.pending) {
		for _, op := range c.pending[agent][path] {
			if r, ok := rangeOf(e.content, op); ok {
				ranged = append(ranged, rangedOp{agent: agent, op: op, r: r})
			}
		}
	}

	// Every unordered pair is visited exactly once, which de-duplicates
	// conflicts by (agent pair, operation pair) identity.
	var out []Conflict
	for i := 0; i < len(ranged); i++ {
		for j := i + 1; j < len(ranged); j++ {
			a, b := ranged[i], ranged[j]
			if a.agent == b.agent {
				continue
			}
			if !a.r.Overlaps(b.r) {
				continue
			}
			out = append(out, Conflict{
				ID:     uuid.New().String(),
				Path:   path,
				Agents: [2]string{a.agent, b.agent},
				Ops:    [2]Operation{a.op, b.op},
				Range:  a.r.Union(b.r),
			})
		}
	}
	c.recorder.ObserveConflicts(path, len(out))
	return out, nil
}

// pendingPathsLocked returns the sorted union of every path any agent has
// staged edits on. Caller holds c.mu.
func (c *Cache) pendingPathsLocked() []string {
	paths := make(map[string]struct{})
	for _, logs := range c.pending {
		for path := range logs {
			paths[path] = struct{}{}
		}
	}
	return sortedKeys(paths)
}

// Conflicts returns every cross-agent collision on the given path.
func (c *Cache) Conflicts(path string) ([]Conflict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conflictsLocked(path)
}

// AllConflicts aggregates collisions over every file with pending edits.
func (c *Cache) AllConflicts() ([]Conflict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Conflict
	for _, path := range c.pendingPathsLocked() {
		found, err := c.conflictsLocked(path)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// HasConflicts reports whether any collision exists on the given path.
func (c *Cache) HasConflicts(path string) (bool, error) {
	found, err := c.Conflicts(path)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}
