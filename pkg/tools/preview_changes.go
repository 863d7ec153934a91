package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// PreviewChangesTool renders the merged view of a file: every agent's
// pending edits applied and annotated by author. The view is advisory and
// still renders when conflicts exist; it is meant for showing a human (or
// the model) a combined diff before anything is committed.
type PreviewChangesTool struct {
	cache         *staging.Cache
	workspaceRoot string
	maxTokens     int // Token budget per previewed file
	tokenCounter  *utils.TokenCounter
}

const defaultPreviewTokens = 8192

// NewPreviewChangesTool creates a new preview_changes tool. maxTokens bounds
// the per-file token budget; zero or negative selects the default.
func NewPreviewChangesTool(cache *staging.Cache, workspaceRoot string, maxTokens int) *PreviewChangesTool {
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	if maxTokens <= 0 {
		maxTokens = defaultPreviewTokens
	}
	// Token counting is best-effort; a nil counter falls back to estimation.
	counter, _ := utils.NewTokenCounter()
	return &PreviewChangesTool{
		cache:         cache,
		workspaceRoot: workspaceRoot,
		maxTokens:     maxTokens,
		tokenCounter:  counter,
	}
}

// Name returns the tool name.
func (t *PreviewChangesTool) Name() string {
	return ToolPreviewChanges
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *PreviewChangesTool) PromptDocumentation() string {
	return `- **preview_changes** - Show a file with ALL agents' pending edits merged
  - Parameters: path (string, optional; omit to preview every file with pending edits)
  - Each edit is annotated with its author and the span it produced
  - Advisory only: renders even when conflicts exist, commits nothing`
}

// Definition returns the tool definition for LLM.
func (t *PreviewChangesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolPreviewChanges,
		Description: "Show the merged view of pending edits: the file content with every agent's staged changes applied, annotated by author. Renders even when conflicts exist. Use check_conflicts before flushing.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"path": {
					Type:        "string",
					Description: "Relative path to a specific file. If omitted, previews every file with pending edits.",
				},
			},
			Required: []string{},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *PreviewChangesTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	var paths []string
	if path, _ := utils.SafeAssert[string](args["path"]); path != "" {
		fullPath, err := resolvePath(t.workspaceRoot, path)
		if err != nil {
			return errorResult(err.Error())
		}
		paths = []string{fullPath}
	} else {
		paths = t.cache.PendingPaths()
	}

	if len(paths) == 0 {
		return jsonResult(map[string]any{
			"success": true,
			"files":   []any{},
			"message": "No pending changes to preview.",
		})
	}

	files := make([]map[string]any, 0, len(paths))
	for _, fullPath := range paths {
		content, annotations, err := t.cache.MergedView(fullPath)
		if err != nil {
			if errors.Is(err, staging.ErrNotExist) {
				return errorResult(fmt.Sprintf("file not found: %s", t.relPath(fullPath)))
			}
			return errorResult(fmt.Sprintf("failed to merge %s: %v", t.relPath(fullPath), err))
		}

		annotated := make([]map[string]any, 0, len(annotations))
		for _, a := range annotations {
			annotated = append(annotated, map[string]any{
				"agent_id": a.Agent,
				"kind":     a.Kind.String(),
				"start":    a.Range.Start,
				"end":      a.Range.End,
				"text":     content[a.Range.Start:a.Range.End],
			})
		}

		tokens := t.countTokens(content)
		file := map[string]any{
			"path":        t.relPath(fullPath),
			"content":     content,
			"annotations": annotated,
			"tokens":      tokens,
		}
		// Annotation offsets index into content, so an over-budget file is
		// flagged rather than cut.
		if tokens > t.maxTokens {
			file["over_token_budget"] = true
			file["warning"] = fmt.Sprintf("preview is ~%d tokens, over the %d token budget; consider previewing with a path argument", tokens, t.maxTokens)
		}
		files = append(files, file)
	}

	return jsonResult(map[string]any{
		"success": true,
		"files":   files,
	})
}

func (t *PreviewChangesTool) relPath(fullPath string) string {
	return strings.TrimPrefix(strings.TrimPrefix(fullPath, t.workspaceRoot), "/")
}

func (t *PreviewChangesTool) countTokens(content string) int {
	if t.tokenCounter == nil {
		return len(content) / 4
	}
	return t.tokenCounter.CountTokens(content)
}
