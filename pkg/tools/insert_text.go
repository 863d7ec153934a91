package tools

import (
	"context"
	"errors"
	"fmt"

	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// InsertTextTool stages an insertion before or after a target string without
// touching disk. The edit becomes visible only in the staging agent's own
// reads until flushed.
type InsertTextTool struct {
	cache         *staging.Cache
	workspaceRoot string
}

// NewInsertTextTool creates a new insert_text tool.
func NewInsertTextTool(cache *staging.Cache, workspaceRoot string) *InsertTextTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &InsertTextTool{cache: cache, workspaceRoot: workspaceRoot}
}

// Name returns the tool name.
func (t *InsertTextTool) Name() string {
	return ToolInsertText
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *InsertTextTool) PromptDocumentation() string {
	return `- **insert_text** - Stage an insertion next to an exact string match
  - Parameters: agent_id (string, REQUIRED), path (string, REQUIRED), target (string, REQUIRED), content (string, REQUIRED), position (string, optional: "before" or "after", default "after")
  - target must match exactly one location in your current view of the file
  - Nothing is written to disk until flush_changes`
}

// Definition returns the tool definition for LLM.
func (t *InsertTextTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolInsertText,
		Description: "Stage an insertion of new text immediately before or after an exact string match. The target must appear exactly once in your view of the file. The edit stays pending until flush_changes.",
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
					Description: "The exact string to anchor the insertion. Must match exactly one location.",
				},
				"content": {
					Type:        "string",
					Description: "The text to insert.",
				},
				"position": {
					Type:        "string",
					Description: "Where to insert relative to the target: \"before\" or \"after\". Defaults to \"after\".",
				},
			},
			Required: []string{"agent_id", "path", "target", "content"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *InsertTextTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
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
	content, ok := utils.SafeAssert[string](args["content"])
	if !ok {
		return nil, fmt.Errorf("content is required and must be a string")
	}

	pos := staging.After
	if posStr, _ := utils.SafeAssert[string](args["position"]); posStr != "" {
		switch posStr {
		case "before":
			pos = staging.Before
		case "after":
			pos = staging.After
		default:
			return errorResult(fmt.Sprintf("invalid position %q: must be \"before\" or \"after\"", posStr))
		}
	}

	fullPath, err := resolvePath(t.workspaceRoot, path)
	if err != nil {
		return errorResult(err.Error())
	}

	if err := t.cache.StageInsert(agentID, fullPath, target, content, pos); err != nil {
		return stageErrorResult(err, path)
	}

	return jsonResult(map[string]any{
		"success": true,
		"path":    path,
		"message": "Insert staged. Use preview_changes to inspect, flush_changes to commit.",
	})
}

// stageErrorResult converts the cache's recoverable staging errors into
// structured LLM responses with actionable hints.
func stageErrorResult(err error, path string) (*ExecResult, error) {
	var notFound *staging.TargetNotFoundError
	if errors.As(err, &notFound) {
		return errorResult("target not found in file. Make sure it matches the file content exactly, including whitespace and indentation.")
	}
	var ambiguous *staging.AmbiguousTargetError
	if errors.As(err, &ambiguous) {
		return errorResult(fmt.Sprintf("target matches %d locations in the file. It must match exactly once. Include more surrounding context to make it unique.", ambiguous.Count))
	}
	if errors.Is(err, staging.ErrNotExist) {
		return errorResult(fmt.Sprintf("file not found: %s", path))
	}
	if errors.Is(err, staging.ErrEmptyTarget) {
		return errorResult("target must not be empty")
	}
	return nil, err
}
