package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"
)

// Recorder receives observations about cache activity. Implementations must
// not call back into the cache. The zero recorder is a no-op; pkg/metrics
// provides a Prometheus-backed implementation.
type Recorder interface {
	// ObserveStage is called after an operation is successfully staged.
	ObserveStage(agent, path string, kind OpKind)
	// ObserveConflicts is called after a conflict scan with the number found.
	ObserveConflicts(path string, count int)
	// ObserveFlush is called after a flush attempt. files and ops count what
	// was committed; on failure both are zero.
	ObserveFlush(agent string, files, ops int, duration time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, string, OpKind)                 {}
func (nopRecorder) ObserveConflicts(string, int)                        {}
func (nopRecorder) ObserveFlush(string, int, int, time.Duration, error) {}

// entry is one ReadCache slot: a file's base snapshot, or an explicit
// "does not exist" marker.
type entry struct {
	content string
	exists  bool
}

// Cache is the staged multi-writer file-edit cache. It owns the ReadCache of
// base snapshots and the per-agent pending logs, and is the context object
// every operation goes through. Construct one per workspace with NewCache.
//
// All public methods are synchronous and run to completion; the mutex only
// guards against interleaved calls from the host's scheduler, there is no
// internal parallelism.
type Cache struct {
	mu       sync.Mutex
	loader   Loader
	writer   Writer
	recorder Recorder

	// files is the ReadCache: path -> base snapshot. Entries are created on
	// first read, replaced by a successful flush, and removed only by
	// explicit invalidation.
	files map[string]entry

	// pending is the staged-edit arena, agent -> path -> ordered operations.
	// The two-level shape makes per-agent discard and flush an O(1) removal
	// of one outer entry.
	pending map[string]map[string][]Operation
}

// NewCache creates a cache backed by the given loader and writer.
func NewCache(loader Loader, writer Writer) *Cache {
	return &Cache{
		loader:   loader,
		writer:   writer,
		recorder: nopRecorder{},
		files:    make(map[string]entry),
		pending:  make(map[string]map[string][]Operation),
	}
}

// SetRecorder installs a metrics recorder. Passing nil restores the no-op
// recorder.
func (c *Cache) SetRecorder(r Recorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == nil {
		r = nopRecorder{}
	}
	c.recorder = r
}

// base returns the cached snapshot for path, loading it on first access.
// A "not found" from the loader is cached as an explicit marker; any other
// loader failure propagates without touching the cache.
func (c *Cache) base(path string) (entry, error) {
	if e, ok := c.files[path]; ok {
		return e, nil
	}
	data, err := c.loader.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e := entry{exists: false}
			c.files[path] = e
			return e, nil
		}
		return entry{}, err
	}
	e := entry{content: string(data), exists: true}
	c.files[path] = e
	return e, nil
}

// virtualView resolves one agent's private view of path: the base snapshot
// with that agent's pending operations, and no one else's, applied in order.
func (c *Cache) virtualView(agent, path string) (string, error) {
	e, err := c.base(path)
	if err != nil {
		return "", err
	}
	if !e.exists {
		return "", fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	return Resolve(path, e.content, c.pending[agent][path])
}

// Read returns the agent's virtual view of path. Reading a file that neither
// exists on disk nor has staged content fails with ErrNotExist.
func (c *Cache) Read(agent, path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.virtualView(agent, path)
}

// stage validates an operation against the agent's current virtual view and
// appends it to the pending log. Validation is virtual-relative: a target
// made unique by the agent's own earlier edits is accepted, even though its
// conflict range will later be measured against the base snapshot.
func (c *Cache) stage(agent, path string, op Operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	view, err := c.virtualView(agent, path)
	if err != nil {
		return err
	}
	if err := validateUnique(path, view, op.Target); err != nil {
		return err
	}

	logs, ok := c.pending[agent]
	if !ok {
		logs = make(map[string][]Operation)
		c.pending[agent] = logs
	}
	logs[path] = append(logs[path], op)
	c.recorder.ObserveStage(agent, path, op.Kind)
	return nil
}

// StageInsert stages an insertion of content before or after target.
func (c *Cache) StageInsert(agent, path, target, content string, pos InsertPosition) error {
	return c.stage(agent, path, NewInsert(target, content, pos))
}

// StageReplace stages a replacement of target with content.
func (c *Cache) StageReplace(agent, path, target, content string) error {
	return c.stage(agent, path, NewReplace(target, content))
}

// StageDelete stages a deletion of target.
func (c *Cache) StageDelete(agent, path, target string) error {
	return c.stage(agent, path, NewDelete(target))
}

// PendingFiles returns the sorted paths the agent has staged edits on.
func (c *Cache) PendingFiles(agent string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.pending[agent])
}

// PendingOperations returns a copy of the agent's pending log for path, in
// staging order.
func (c *Cache) PendingOperations(agent, path string) []Operation {
	c.mu.Lock()
	defer c.mu.Unlock()
	ops := c.pending[agent][path]
	out := make([]Operation, len(ops))
	copy(out, ops)
	return out
}

// HasPending reports whether the agent has any staged edits.
func (c *Cache) HasPending(agent string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending[agent]) > 0
}

// PendingPaths returns the sorted union of every path any agent has staged
// edits on.
func (c *Cache) PendingPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingPathsLocked()
}

// Agents returns the sorted ids of all agents with staged edits.
func (c *Cache) Agents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.pending)
}

// Discard drops every pending edit the agent has staged, across all files.
func (c *Cache) Discard(agent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, agent)
}

// DiscardFile drops the agent's pending edits for a single path.
func (c *Cache) DiscardFile(agent, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logs, ok := c.pending[agent]; ok {
		delete(logs, path)
		if len(logs) == 0 {
			delete(c.pending, agent)
		}
	}
}

// Invalidate removes a path's base snapshot so the next read reloads it.
// Pending logs are untouched; their conflict ranges will be recomputed
// against the fresh snapshot.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

// InvalidateAll clears the entire ReadCache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]entry)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
