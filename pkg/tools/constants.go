package tools

// Tool name constants - use these instead of magic strings to prevent typos
// and enable compile-time checking.
const (
	// Staging tools.
	ToolInsertText  = "insert_text"
	ToolReplaceText = "replace_text"
	ToolDeleteText  = "delete_text"

	// Read tools.
	ToolReadFile       = "read_file"
	ToolPreviewChanges = "preview_changes"
	ToolCheckConflicts = "check_conflicts"

	// Commit tools.
	ToolFlushChanges   = "flush_changes"
	ToolDiscardChanges = "discard_changes"
)

// DefaultWorkspaceDir is the fallback root for relative file paths.
const DefaultWorkspaceDir = "/workspace"

// EditingTools is the standard tool set for an agent with write access.
//
//nolint:gochecknoglobals // Shared constant tool list
var EditingTools = []string{
	ToolReadFile,
	ToolInsertText,
	ToolReplaceText,
	ToolDeleteText,
	ToolPreviewChanges,
	ToolCheckConflicts,
	ToolFlushChanges,
	ToolDiscardChanges,
}

// ReadOnlyTools is the tool set for an agent that may inspect but not edit.
//
//nolint:gochecknoglobals // Shared constant tool list
var ReadOnlyTools = []string{
	ToolReadFile,
	ToolPreviewChanges,
	ToolCheckConflicts,
}
