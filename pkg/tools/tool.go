// Package tools provides the LLM-facing tool implementations built on the
// staged edit cache: staging edits, previewing pending changes, checking
// conflicts, and flushing to disk.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is the contract every tool implementation satisfies.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string
	// PromptDocumentation returns formatted tool documentation for prompts.
	PromptDocumentation() string
	// Definition returns the tool definition for LLM.
	Definition() ToolDefinition
	// Exec executes the tool with the given arguments.
	Exec(ctx context.Context, args map[string]any) (*ExecResult, error)
}

// ToolDefinition describes a tool to the LLM.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// InputSchema is the JSON schema of a tool's parameters.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property describes a single tool parameter.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ExecResult is the content returned to the LLM after tool execution.
type ExecResult struct {
	Content string `json:"content"`
}

// jsonResult marshals a response map into an ExecResult.
func jsonResult(response map[string]any) (*ExecResult, error) {
	content, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &ExecResult{Content: string(content)}, nil
}

// errorResult creates a structured error response for the LLM. Recoverable
// tool failures are reported this way rather than as Go errors, so the model
// can read the message and retry with better arguments.
func errorResult(msg string) (*ExecResult, error) {
	return jsonResult(map[string]any{
		"success": false,
		"error":   msg,
	})
}
