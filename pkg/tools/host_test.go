package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"editcache/pkg/config"
)

func TestNewHostRegistersAllTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = t.TempDir()

	host, err := NewHost(cfg)
	if err != nil {
		t.Fatalf("failed to build host: %v", err)
	}
	defer func() { _ = host.Close() }()

	for _, name := range append(append([]string{}, EditingTools...), ReadOnlyTools...) {
		if _, err := host.Registry.Get(name); err != nil {
			t.Errorf("tool %s not registered: %v", name, err)
		}
	}
	if host.Journal != nil {
		t.Error("journal should be nil when disabled")
	}
}

func TestNewHostJournalsFlushes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = t.TempDir()
	cfg.Journal.Enabled = true

	if err := os.WriteFile(filepath.Join(cfg.WorkspaceRoot, "greet.txt"), []byte("Hello World\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	host, err := NewHost(cfg)
	if err != nil {
		t.Fatalf("failed to build host: %v", err)
	}
	defer func() { _ = host.Close() }()

	replace, err := host.Registry.Get(ToolReplaceText)
	if err != nil {
		t.Fatalf("replace_text not registered: %v", err)
	}
	result, err := replace.Exec(context.Background(), map[string]any{
		"agent_id": "alice",
		"path":     "greet.txt",
		"target":   "World",
		"content":  "Universe",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp := parseResponse(t, result); resp["success"] != true {
		t.Fatalf("replace failed: %v", resp)
	}

	flush, err := host.Registry.Get(ToolFlushChanges)
	if err != nil {
		t.Fatalf("flush_changes not registered: %v", err)
	}
	result, err = flush.Exec(context.Background(), map[string]any{"agent_id": "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp := parseResponse(t, result); resp["success"] != true {
		t.Fatalf("flush failed: %v", resp)
	}

	records, err := host.Journal.FlushesByAgent("alice")
	if err != nil {
		t.Fatalf("journal query failed: %v", err)
	}
	if len(records) != 1 || records[0].Path != "greet.txt" || records[0].Operations != 1 {
		t.Errorf("unexpected journal records: %+v", records)
	}
}
