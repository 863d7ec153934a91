package logx

import (
	"errors"
	"testing"
)

func TestSetDebugToggle(t *testing.T) {
	original := IsDebugEnabled()
	defer SetDebug(original)

	SetDebug(true)
	if !IsDebugEnabled() {
		t.Error("expected debug enabled after SetDebug(true)")
	}
	SetDebug(false)
	if IsDebugEnabled() {
		t.Error("expected debug disabled after SetDebug(false)")
	}
}

func TestWithAgentID(t *testing.T) {
	base := NewLogger("staging")
	derived := base.WithAgentID("flush-changes")

	if base.GetAgentID() != "staging" {
		t.Errorf("base logger id changed: %s", base.GetAgentID())
	}
	if derived.GetAgentID() != "flush-changes" {
		t.Errorf("unexpected derived id: %s", derived.GetAgentID())
	}
}

func TestErrorfReturnsError(t *testing.T) {
	err := Errorf("flush of %s failed", "a.txt")
	if err == nil || err.Error() != "flush of a.txt failed" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")

	err := Wrap(cause, "journal open")
	if err == nil || err.Error() != "journal open: disk full" {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should preserve the cause")
	}
	if Wrap(nil, "noop") != nil {
		t.Error("wrapping nil should return nil")
	}
}
