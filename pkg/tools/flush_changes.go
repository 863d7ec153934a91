package tools

import (
	"context"
	"errors"
	"strings"

	"editcache/pkg/journal"
	"editcache/pkg/logx"
	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// FlushChangesTool commits an agent's staged edits to disk after the cache
// has proven no conflicts exist. Successful flushes are recorded in the
// flush journal when one is configured.
type FlushChangesTool struct {
	cache         *staging.Cache
	workspaceRoot string
	journal       *journal.Journal // optional
	logger        *logx.Logger
}

// NewFlushChangesTool creates a new flush_changes tool. jrnl may be nil to
// disable flush journaling.
func NewFlushChangesTool(cache *staging.Cache, workspaceRoot string, jrnl *journal.Journal) *FlushChangesTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &FlushChangesTool{
		cache:         cache,
		workspaceRoot: workspaceRoot,
		journal:       jrnl,
		logger:        logx.NewLogger("flush-changes"),
	}
}

// Name returns the tool name.
func (t *FlushChangesTool) Name() string {
	return ToolFlushChanges
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *FlushChangesTool) PromptDocumentation() string {
	return `- **flush_changes** - Commit staged edits to disk
  - Parameters: agent_id (string, REQUIRED unless all=true), all (boolean, optional: flush every agent)
  - Fails without writing anything if any of your edits conflict with another agent's
  - On success the pending edits are cleared and the files are updated on disk`
}

// Definition returns the tool definition for LLM.
func (t *FlushChangesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolFlushChanges,
		Description: "Commit staged edits to persistent storage. The flush is all-or-nothing: if any conflict involves the flushing agent, nothing is written and the full conflict list is returned. Use check_conflicts first.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"agent_id": {
					Type:        "string",
					Description: "Identifier of the agent whose edits to commit. Required unless all is true.",
				},
				"all": {
					Type:        "boolean",
					Description: "Flush every agent's pending edits. Fails if any conflict exists anywhere.",
				},
			},
			Required: []string{},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *FlushChangesTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	if flushAll, _ := utils.SafeAssert[bool](args["all"]); flushAll {
		return t.execFlushAll()
	}

	agentID, err := requireStringArg(args, "agent_id")
	if err != nil {
		return nil, err
	}
	return t.execFlushAgent(agentID)
}

func (t *FlushChangesTool) execFlushAgent(agentID string) (*ExecResult, error) {
	// Snapshot the pending work before flushing; the cache clears it on
	// success and the journal wants per-file operation counts.
	files := t.cache.PendingFiles(agentID)
	opCounts := make(map[string]int, len(files))
	for _, path := range files {
		opCounts[path] = len(t.cache.PendingOperations(agentID, path))
	}

	if err := t.cache.Flush(agentID); err != nil {
		return t.flushErrorResult(err)
	}

	t.recordFlushes(agentID, files, opCounts)
	t.logger.Info("Flushed %d file(s) for agent %s", len(files), agentID)

	return jsonResult(map[string]any{
		"success": true,
		"agent":   agentID,
		"files":   t.relPaths(files),
		"message": "All staged edits committed to disk.",
	})
}

func (t *FlushChangesTool) execFlushAll() (*ExecResult, error) {
	agents := t.cache.Agents()
	snapshots := make(map[string]map[string]int, len(agents))
	for _, agent := range agents {
		counts := make(map[string]int)
		for _, path := range t.cache.PendingFiles(agent) {
			counts[path] = len(t.cache.PendingOperations(agent, path))
		}
		snapshots[agent] = counts
	}

	if err := t.cache.FlushAll(); err != nil {
		return t.flushErrorResult(err)
	}

	total := 0
	for agent, counts := range snapshots {
		files := make([]string, 0, len(counts))
		for path := range counts {
			files = append(files, path)
		}
		t.recordFlushes(agent, files, counts)
		total += len(files)
	}
	t.logger.Info("Flushed %d file(s) across %d agent(s)", total, len(agents))

	return jsonResult(map[string]any{
		"success": true,
		"agents":  agents,
		"message": "All staged edits committed to disk.",
	})
}

// flushErrorResult renders a blocked or failed flush. Conflicts come back as
// a structured list so the caller can present every collision.
func (t *FlushChangesTool) flushErrorResult(err error) (*ExecResult, error) {
	var conflictErr *staging.ConflictError
	if errors.As(err, &conflictErr) {
		conflicts := make([]map[string]any, 0, len(conflictErr.Conflicts))
		for i := range conflictErr.Conflicts {
			c := &conflictErr.Conflicts[i]
			conflicts = append(conflicts, map[string]any{
				"id":     c.ID,
				"path":   t.relPath(c.Path),
				"agents": []string{c.Agents[0], c.Agents[1]},
				"start":  c.Range.Start,
				"end":    c.Range.End,
			})
		}
		return jsonResult(map[string]any{
			"success":   false,
			"error":     "flush blocked by conflicts; nothing was written",
			"conflicts": conflicts,
		})
	}
	// I/O failures from the loader/writer collaborators propagate unwrapped.
	return nil, err
}

// recordFlushes journals committed files; journaling failures are logged,
// never surfaced, because the flush itself already succeeded.
func (t *FlushChangesTool) recordFlushes(agentID string, files []string, opCounts map[string]int) {
	if t.journal == nil {
		return
	}
	for _, path := range files {
		rec := journal.NewFlushRecord(agentID, t.relPath(path), opCounts[path])
		if err := t.journal.RecordFlush(rec); err != nil {
			t.logger.Warn("Failed to journal flush of %s: %v", path, err)
		}
	}
}

func (t *FlushChangesTool) relPath(fullPath string) string {
	return strings.TrimPrefix(strings.TrimPrefix(fullPath, t.workspaceRoot), "/")
}

func (t *FlushChangesTool) relPaths(fullPaths []string) []string {
	out := make([]string, 0, len(fullPaths))
	for _, p := range fullPaths {
		out = append(out, t.relPath(p))
	}
	return out
}
