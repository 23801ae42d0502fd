package chunking

import (
	"strings"
	"testing"
)

func TestSplitDisabledByDefault(t *testing.T) {
	s := NewSplitter(0, 0)
	if got := s.Split(strings.Repeat("a", 5000)); got != nil {
		t.Fatalf("disabled splitter must return nil, got %d parts", len(got))
	}
}

func TestSplitWindowsWithOverlap(t *testing.T) {
	s := NewSplitter(10, 2)
	parts := s.Split("abcdefghijklmnopqrst")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %v", len(parts), parts)
	}
	if parts[0] != "abcdefghij" {
		t.Fatalf("parts[0] = %q", parts[0])
	}
	if parts[1] != "ijklmnopqr" {
		t.Fatalf("parts[1] = %q", parts[1])
	}
}

func TestSplitHandlesMultibyteRunes(t *testing.T) {
	s := NewSplitter(3, 0)
	parts := s.Split("日本語テキスト")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0] != "日本語" || parts[1] != "テキス" || parts[2] != "ト" {
		t.Fatalf("parts = %v", parts)
	}
}

func TestNewSplitterClampsOverlap(t *testing.T) {
	s := NewSplitter(8, 20)
	if s.Overlap != 2 {
		t.Fatalf("overlap = %d, want 2", s.Overlap)
	}
}
