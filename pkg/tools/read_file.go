package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"editcache/pkg/staging"
)

const (
	defaultReadLines   = 2000 // Default number of lines to read
	maxLineLength      = 2000 // Truncate lines longer than this
	defaultStartOffset = 1    // 1-based line numbering
)

// ReadFileTool reads a file through the staging cache, so an agent always
// sees its own pending edits applied (read-your-own-writes) and never
// another agent's.
type ReadFileTool struct {
	cache         *staging.Cache
	workspaceRoot string
	maxSizeBytes  int64 // Safety cap on total output bytes
}

// NewReadFileTool creates a new read_file tool.
func NewReadFileTool(cache *staging.Cache, workspaceRoot string, maxSizeBytes int64) *ReadFileTool {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 1048576 // Default: 1MB
	}
	if workspaceRoot == "" {
		workspaceRoot = DefaultWorkspaceDir
	}
	return &ReadFileTool{
		cache:         cache,
		workspaceRoot: workspaceRoot,
		maxSizeBytes:  maxSizeBytes,
	}
}

// Name returns the tool name.
func (t *ReadFileTool) Name() string {
	return ToolReadFile
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *ReadFileTool) PromptDocumentation() string {
	return `- **read_file** - Read a file with your own pending edits applied
  - Parameters:
    - agent_id (string, REQUIRED): identifier of the reading agent
    - path (string, REQUIRED): relative path to file within workspace
    - offset (integer, optional): line number to start from (1-based, default: 1)
    - limit (integer, optional): number of lines to read (default: 2000)
  - Output uses numbered lines (cat -n format)
  - You see your own staged edits; other agents' pending edits are invisible`
}

// Definition returns the tool definition for LLM.
func (t *ReadFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolReadFile,
		Description: "Read a file from the workspace with your own pending edits applied. Output uses numbered lines. For large files, use offset and limit to read specific sections.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"agent_id": {
					Type:        "string",
					Description: "Identifier of the reading agent",
				},
				"path": {
					Type:        "string",
					Description: "Relative path to file within workspace",
				},
				"offset": {
					Type:        "integer",
					Description: "Line number to start reading from (1-based). Defaults to 1.",
				},
				"limit": {
					Type:        "integer",
					Description: "Number of lines to read. Defaults to 2000.",
				},
			},
			Required: []string{"agent_id", "path"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *ReadFileTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	agentID, err := requireStringArg(args, "agent_id")
	if err != nil {
		return nil, err
	}
	path, err := requireStringArg(args, "path")
	if err != nil {
		return nil, err
	}
	offset := intArgOrDefault(args, "offset", defaultStartOffset)
	limit := intArgOrDefault(args, "limit", defaultReadLines)

	fullPath, err := resolvePath(t.workspaceRoot, path)
	if err != nil {
		return errorResult(err.Error())
	}

	content, err := t.cache.Read(agentID, fullPath)
	if err != nil {
		if errors.Is(err, staging.ErrNotExist) {
			return errorResult(fmt.Sprintf("file not found: %s", path))
		}
		return errorResult(fmt.Sprintf("file not readable: %s (error: %v)", path, err))
	}

	output, totalLines, truncated := numberLines(content, offset, limit)
	if int64(len(output)) > t.maxSizeBytes {
		output = truncateAtLineBoundary(output, int(t.maxSizeBytes))
		truncated = true
	}

	return jsonResult(map[string]any{
		"success":     true,
		"content":     output,
		"path":        path,
		"truncated":   truncated,
		"offset":      offset,
		"limit":       limit,
		"total_lines": totalLines,
	})
}

// numberLines renders a window of content in cat -n format, truncating long
// lines and reporting the file's total line count.
func numberLines(content string, offset, limit int) (string, int, bool) {
	lines := strings.Split(content, "\n")
	// A trailing newline produces one empty trailing element, not a line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	totalLines := len(lines)

	var b strings.Builder
	end := offset + limit - 1
	for i, line := range lines {
		n := i + 1
		if n < offset || n > end {
			continue
		}
		if len(line) > maxLineLength {
			line = line[:maxLineLength]
		}
		fmt.Fprintf(&b, "%6d\t%s\n", n, line)
	}
	return b.String(), totalLines, totalLines > end
}

// truncateAtLineBoundary cuts s to at most n bytes, preferring the last
// complete numbered line within the cap and never splitting a UTF-8 rune.
func truncateAtLineBoundary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if i := strings.LastIndexByte(s[:n], '\n'); i >= 0 {
		return s[:i+1]
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
