package util

import (
	"strings"
	"testing"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line longer than %d characters: %q", Wrap, line)
		}
	}

	if got := WrapString("  short   text "); got != "short text" {
		t.Errorf("Expected whitespace to be normalized, got %q", got)
	}
	if got := WrapString(""); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
