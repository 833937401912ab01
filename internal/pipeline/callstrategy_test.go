package pipeline

import "testing"

func TestCallStrategyString(t *testing.T) {
	if Inline.String() != "inline" {
		t.Errorf("Inline.String() = %q, want %q", Inline.String(), "inline")
	}
	if ContextInsensitive.String() != "context_insensitive" {
		t.Errorf("ContextInsensitive.String() = %q, want %q", ContextInsensitive.String(), "context_insensitive")
	}
}
