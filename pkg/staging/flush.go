package staging

import (
	"fmt"
	"time"
)

// Flush commits every file the agent has staged edits on. The call is
// all-or-nothing with respect to conflicts: if any conflict involving the
// agent exists, it fails with a ConflictError carrying the full list and
// performs no writes, leaving disk, cache, and the pending log untouched.
// On success each file's resolved view is persisted, the ReadCache entry is
// replaced with the written content, and the agent's log for that file is
// cleared.
func (c *Cache) Flush(agent string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	paths := sortedKeys(c.pending[agent])
	if len(paths) == 0 {
		return nil
	}

	var blocking []Conflict
	for _, path := range paths {
		found, err := c.conflictsLocked(path)
		if err != nil {
			return err
		}
		for i := range found {
			if found[i].Involves(agent) {
				blocking = append(blocking, found[i])
			}
		}
	}
	if len(blocking) > 0 {
		err := &ConflictError{Conflicts: blocking}
		c.recorder.ObserveFlush(agent, 0, 0, time.Since(start), err)
		return err
	}

	files, ops, err := c.flushAgentLocked(agent, paths)
	c.recorder.ObserveFlush(agent, files, ops, time.Since(start), err)
	return err
}

// flushAgentLocked writes the agent's resolved views to storage. Conflict
// absence has already been established by the caller. Returns the number of
// files and operations committed. Caller holds c.mu.
func (c *Cache) flushAgentLocked(agent string, paths []string) (int, int, error) {
	files, ops := 0, 0
	for _, path := range paths {
		log := c.pending[agent][path]
		e, err := c.base(path)
		if err != nil {
			return files, ops, err
		}
		if !e.exists {
			return files, ops, fmt.Errorf("%s: %w", path, ErrNotExist)
		}

		resolved, err := Resolve(path, e.content, log)
		if err != nil {
			return files, ops, err
		}
		if err := c.writer.Write(path, []byte(resolved)); err != nil {
			return files, ops, err
		}

		c.files[path] = entry{content: resolved, exists: true}
		delete(c.pending[agent], path)
		files++
		ops += len(log)
	}
	if len(c.pending[agent]) == 0 {
		delete(c.pending, agent)
	}
	return files, ops, nil
}

// FlushAll commits every agent's staged edits. The system-wide conflict set
// is checked first; if non-empty, FlushAll fails with a ConflictError and no
// agent is flushed. Otherwise agents are flushed in sorted order; with the
// global check passed and all calls serialized under c.mu, the per-agent
// flushes cannot race each other.
func (c *Cache) FlushAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var all []Conflict
	for _, path := range c.pendingPathsLocked() {
		found, err := c.conflictsLocked(path)
		if err != nil {
			return err
		}
		all = append(all, found...)
	}
	if len(all) > 0 {
		return &ConflictError{Conflicts: all}
	}

	for _, agent := range sortedKeys(c.pending) {
		start := time.Now()
		paths := sortedKeys(c.pending[agent])
		files, ops, err := c.flushAgentLocked(agent, paths)
		c.recorder.ObserveFlush(agent, files, ops, time.Since(start), err)
		if err != nil {
			return err
		}
	}
	return nil
}
