package tools

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"editcache/pkg/config"
	"editcache/pkg/journal"
	"editcache/pkg/logx"
	"editcache/pkg/metrics"
	"editcache/pkg/staging"
)

// Host owns one fully wired edit-cache stack: the staging cache, the tool
// registry exposed to agents, and the optional flush journal.
type Host struct {
	Cache    *staging.Cache
	Registry *Registry
	Journal  *journal.Journal // nil when journaling is disabled
}

// NewHost builds a host from configuration. The cache is backed by the local
// filesystem under cfg.WorkspaceRoot and every editing and read-only tool is
// registered.
func NewHost(cfg config.Config) (*Host, error) {
	cache := staging.NewCache(staging.OSLoader{}, staging.OSWriter{})
	if cfg.MetricsEnabled {
		cache.SetRecorder(metrics.NewPrometheusRecorder())
	}

	var jrnl *journal.Journal
	if cfg.Journal.Enabled {
		path := cfg.Journal.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.WorkspaceRoot, path)
		}
		var err error
		jrnl, err = journal.Open(path, uuid.New().String())
		if err != nil {
			return nil, fmt.Errorf("failed to open flush journal: %w", err)
		}
	}

	root := cfg.WorkspaceRoot
	registry := NewRegistry()
	for _, tool := range []Tool{
		NewInsertTextTool(cache, root),
		NewReplaceTextTool(cache, root),
		NewDeleteTextTool(cache, root),
		NewReadFileTool(cache, root, cfg.ReadLimitBytes),
		NewPreviewChangesTool(cache, root, cfg.Preview.MaxTokens),
		NewCheckConflictsTool(cache, root),
		NewFlushChangesTool(cache, root, jrnl),
		NewDiscardChangesTool(cache, root),
	} {
		if err := registry.Register(tool); err != nil {
			if jrnl != nil {
				_ = jrnl.Close()
			}
			return nil, fmt.Errorf("failed to register %s: %w", tool.Name(), err)
		}
	}

	logx.Infof("Edit cache host ready (workspace: %s, journal: %v)", root, cfg.Journal.Enabled)
	return &Host{Cache: cache, Registry: registry, Journal: jrnl}, nil
}

// Close releases host resources. Pending staged edits are dropped, never
// flushed implicitly.
func (h *Host) Close() error {
	if h.Journal != nil {
		return h.Journal.Close()
	}
	return nil
}
