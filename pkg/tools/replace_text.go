package tools

import (
	"context"
	"fmt"

	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// ReplaceTextTool stages a replacement of an exact string match. This is the
// staged counterpart of a classic file_edit tool: the same unique-match rule,
// but nothing reaches disk until flush_changes.
type ReplaceTextTool struct {
	cache         *staging.Cache
	workspaceRoot string
}

// NewReplaceTextTool creates a new replace_text tool.
func NewReplaceTextTool(cache *staging.Cache, workspaceRoot string) *ReplaceTextTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &ReplaceTextTool{cache: cache, workspaceRoot: workspaceRoot}
}

// Name returns the tool name.
func (t *ReplaceTextTool) Name() string {
	return ToolReplaceText
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *ReplaceTextTool) PromptDocumentation() string {
	return `- **replace_text** - Stage a replacement of an exact string match
  - Parameters: agent_id (string, REQUIRED), path (string, REQUIRED), target (string, REQUIRED), content (string, REQUIRED)
  - target must match exactly one location in your current view of the file
  - Use an empty content to delete the matched text
  - Nothing is written to disk until flush_changes`
}

// Definition returns the tool definition for LLM.
func (t *ReplaceTextTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolReplaceText,
		Description: "Stage a replacement of an exact string match with new content. The target must appear exactly once in your view of the file. The edit stays pending until flush_changes.",
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
					Description: "The exact string to find in the file. Must match exactly one location.",
				},
				"content": {
					Type:        "string",
					Description: "The replacement string. Use empty string to delete the matched text.",
				},
			},
			Required: []string{"agent_id", "path", "target", "content"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *ReplaceTextTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
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

	// content can be empty (deletion), so just check type.
	content, ok := utils.SafeAssert[string](args["content"])
	if !ok {
		return nil, fmt.Errorf("content is required and must be a string")
	}

	fullPath, err := resolvePath(t.workspaceRoot, path)
	if err != nil {
		return errorResult(err.Error())
	}

	if err := t.cache.StageReplace(agentID, fullPath, target, content); err != nil {
		return stageErrorResult(err, path)
	}

	return jsonResult(map[string]any{
		"success": true,
		"path":    path,
		"message": "Replacement staged. Use preview_changes to inspect, flush_changes to commit.",
	})
}
