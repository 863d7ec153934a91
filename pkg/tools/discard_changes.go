package tools

import (
	"context"

	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// DiscardChangesTool drops an agent's staged edits without writing anything.
type DiscardChangesTool struct {
	cache         *staging.Cache
	workspaceRoot string
}

// NewDiscardChangesTool creates a new discard_changes tool.
func NewDiscardChangesTool(cache *staging.Cache, workspaceRoot string) *DiscardChangesTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &DiscardChangesTool{cache: cache, workspaceRoot: workspaceRoot}
}

// Name returns the tool name.
func (t *DiscardChangesTool) Name() string {
	return ToolDiscardChanges
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *DiscardChangesTool) PromptDocumentation() string {
	return `- **discard_changes** - Drop staged edits without committing them
  - Parameters: agent_id (string, REQUIRED), path (string, optional: discard only this file's edits)
  - Use to back out of a conflict so another agent can flush`
}

// Definition returns the tool definition for LLM.
func (t *DiscardChangesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolDiscardChanges,
		Description: "Drop staged edits without writing anything to disk. With a path, discards only that file's pending edits; otherwise discards everything the agent has staged.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"agent_id": {
					Type:        "string",
					Description: "Identifier of the agent whose edits to discard",
				},
				"path": {
					Type:        "string",
					Description: "Optional: relative path of a single file to discard edits for.",
				},
			},
			Required: []string{"agent_id"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *DiscardChangesTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	agentID, err := requireStringArg(args, "agent_id")
	if err != nil {
		return nil, err
	}

	if path, _ := utils.SafeAssert[string](args["path"]); path != "" {
		fullPath, resolveErr := resolvePath(t.workspaceRoot, path)
		if resolveErr != nil {
			return errorResult(resolveErr.Error())
		}
		t.cache.DiscardFile(agentID, fullPath)
		return jsonResult(map[string]any{
			"success": true,
			"agent":   agentID,
			"path":    path,
			"message": "Pending edits for the file discarded.",
		})
	}

	t.cache.Discard(agentID)
	return jsonResult(map[string]any{
		"success": true,
		"agent":   agentID,
		"message": "All pending edits discarded.",
	})
}
