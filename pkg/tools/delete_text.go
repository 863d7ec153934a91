package tools

import (
	"context"

	"editcache/pkg/staging"
)

// DeleteTextTool stages a deletion of an exact string match.
type DeleteTextTool struct {
	cache         *staging.Cache
	workspaceRoot string
}

// NewDeleteTextTool creates a new delete_text tool.
func NewDeleteTextTool(cache *staging.Cache, workspaceRoot string) *DeleteTextTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &DeleteTextTool{cache: cache, workspaceRoot: workspaceRoot}
}

// Name returns the tool name.
func (t *DeleteTextTool) Name() string {
	return ToolDeleteText
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *DeleteTextTool) PromptDocumentation() string {
	return `- **delete_text** - Stage a deletion of an exact string match
  - Parameters: agent_id (string, REQUIRED), path (string, REQUIRED), target (string, REQUIRED)
  - target must match exactly one location in your current view of the file
  - Nothing is written to disk until flush_changes`
}

// Definition returns the tool definition for LLM.
func (t *DeleteTextTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolDeleteText,
		Description: "Stage a deletion of an exact string match. The target must appear exactly once in your view of the file. The edit stays pending until flush_changes.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"agent_id": {
					Type:        "string",
					Description: "Identifier of the agent staging the edit",
				},
				"path": {
					Type:        "string",
					Description: "Relative path to file within workspace",
				},
				"target": {
					Type:        "string",
					Description: "The exact string to delete. Must match exactly one location.",
				},
			},
			Required: []string{"agent_id", "path", "target"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *DeleteTextTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	agentID, err := requireStringArg(args, "agent_id")
	if err != nil {
		return nil, err
	}
	path, err := requireStringArg(args, "path")
	if err != nil {
		return nil, err
	}
	target, err := requireStringArg(args, "target")
	if err != nil {
		return nil, err
	}

	fullPath, err := resolvePath(t.workspaceRoot, path)
	if err != nil {
		return errorResult(err.Error())
	}

	if err := t.cache.StageDelete(agentID, fullPath, target); err != nil {
		return stageErrorResult(err, path)
	}

	return jsonResult(map[string]any{
		"success": true,
		"path":    path,
		"message": "Deletion staged. Use preview_changes to inspect, flush_changes to commit.",
	})
}
