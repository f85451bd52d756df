package random

import (
	"strings"
	"testing"
)

func TestLower(t *testing.T) {
	s := Lower(64)
	if len(s) != 64 {
		t.Fatalf("expected 64 chars, got %d", len(s))
	}
	if strings.ToLower(s) != s {
		t.Fatalf("expected lower-case output, got %q", s)
	}
	for _, r := range s {
		if !strings.ContainsRune(lowerCharset, r) {
			t.Fatalf("unexpected rune %q in %q", r, s)
		}
	}
}
