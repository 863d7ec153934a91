package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"editcache/pkg/utils"
)

// requireStringArg extracts a required non-empty string argument.
func requireStringArg(args map[string]any, key string) (string, error) {
	val, ok := utils.SafeAssert[string](args[key])
	if !ok || val == "" {
		return "", fmt.Errorf("%s is required and must be a non-empty string", key)
	}
	return val, nil
}

// resolvePath cleans a workspace-relative path and anchors it under root.
// Directory traversal out of the workspace is rejected.
func resolvePath(root, path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if strings.HasPrefix(cleanPath, "..") || filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("path must be relative to the workspace without traversal (..)")
	}
	return filepath.Join(root, cleanPath), nil
}

// intArgOrDefault extracts an integer argument, returning defaultVal if
// missing or invalid. Handles float64 (from JSON unmarshal), int, and int64.
func intArgOrDefault(args map[string]any, key string, defaultVal int) int {
	v, exists := args[key]
	if !exists {
		return defaultVal
	}
	var n int
	switch val := v.(type) {
	case float64:
		n = int(val)
	case int:
		n = val
	case int64:
		n = int(val)
	default:
		return defaultVal
	}
	if n < 1 {
		return defaultVal
	}
	return n
}
