package tools

import (
	"context"
	"strings"

	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// CheckConflictsTool reports cross-agent collisions among pending edits.
type CheckConflictsTool struct {
	cache         *staging.Cache
	workspaceRoot string
}

// NewCheckConflictsTool creates a new check_conflicts tool.
func NewCheckConflictsTool(cache *staging.Cache, workspaceRoot string) *CheckConflictsTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &CheckConflictsTool{cache: cache, workspaceRoot: workspaceRoot}
}

// Name returns the tool name.
func (t *CheckConflictsTool) Name() string {
	return ToolCheckConflicts
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *CheckConflictsTool) PromptDocumentation() string {
	return `- **check_conflicts** - List collisions between different agents' pending edits
  - Parameters: path (string, optional; omit to check every file with pending edits)
  - Two edits conflict when their affected ranges in the file overlap
  - Conflicts block flush_changes; resolve them by discarding or re-staging`
}

// Definition returns the tool definition for LLM.
func (t *CheckConflictsTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolCheckConflicts,
		Description: "List conflicts between different agents' pending edits. A conflict is a pair of edits from different agents whose affected character ranges overlap. Conflicts must be resolved before flush_changes will succeed.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"path": {
					Type:        "string",
					Description: "Relative path to a specific file. If omitted, checks every file with pending edits.",
				},
			},
			Required: []string{},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *CheckConflictsTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	var (
		found []staging.Conflict
		err   error
	)
	if path, _ := utils.SafeAssert[string](args["path"]); path != "" {
		fullPath, resolveErr := resolvePath(t.workspaceRoot, path)
		if resolveErr != nil {
			return errorResult(resolveErr.Error())
		}
		found, err = t.cache.Conflicts(fullPath)
	} else {
		found, err = t.cache.AllConflicts()
	}
	if err != nil {
		return errorResult(err.Error())
	}

	return jsonResult(map[string]any{
		"success":   true,
		"conflicts": t.render(found),
		"count":     len(found),
	})
}

// render converts conflict records into LLM-readable maps.
func (t *CheckConflictsTool) render(found []staging.Conflict) []map[string]any {
	out := make([]map[string]any, 0, len(found))
	for i := range found {
		c := &found[i]
		out = append(out, map[string]any{
			"id":     c.ID,
			"path":   strings.TrimPrefix(strings.TrimPrefix(c.Path, t.workspaceRoot), "/"),
			"agents": []string{c.Agents[0], c.Agents[1]},
			"start":  c.Range.Start,
			"end":    c.Range.End,
			"operations": []map[string]any{
				{"agent_id": c.Agents[0], "kind": c.Ops[0].Kind.String(), "target": c.Ops[0].Target},
				{"agent_id": c.Agents[1], "kind": c.Ops[1].Kind.String(), "target": c.Ops[1].Target},
			},
		})
	}
	return out
}
