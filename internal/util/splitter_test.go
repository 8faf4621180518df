package util

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(100, 20, nil)
	chunks := s.Split("  just one short paragraph  ")
	if len(chunks) != 1 || chunks[0] != "just one short paragraph" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestSplitPrefersParagraphBreaks(t *testing.T) {
	s := NewSplitter(12, 0, nil)
	chunks := s.Split("para one.\n\npara two.")
	want := []string{"para one.", "para two."}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("got %#v want %#v", chunks, want)
	}
}

func TestSplitBreaksAtSentences(t *testing.T) {
	s := NewSplitter(14, 0, nil)
	chunks := s.Split("Alpha beta. Gamma delta. Epsilon zeta.")
	want := []string{"Alpha beta.", "Gamma delta.", "Epsilon zeta."}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("got %#v want %#v", chunks, want)
	}
}

func TestSplitFallbackWindowsOverlap(t *testing.T) {
	s := NewSplitter(4, 2, []string{""})
	chunks := s.Split("abcdefghij")
	want := []string{"abcd", "cdef", "efgh", "ghij"}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("got %#v want %#v", chunks, want)
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-2:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Fatalf("chunk %d does not overlap previous: %q vs %q", i, chunks[i], prevTail)
		}
	}
}

func TestSplitRespectsSizeBound(t *testing.T) {
	text := strings.Repeat("Some sentence with words in it. ", 80) +
		"\n\n" + strings.Repeat("anotherparagraphwithoutanyspacesatall", 10)
	s := NewSplitter(100, 20, nil)
	chunks := s.Split(text)
	if len(chunks) < 10 {
		t.Fatalf("expected many chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 100 {
			t.Fatalf("chunk %d exceeds bound: %d runes", i, n)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 40)
	s := NewSplitter(120, 30, nil)
	first := s.Split(text)
	second := s.Split(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("split is not deterministic")
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(100, 20, nil)
	if chunks := s.Split("   \n\t "); chunks != nil {
		t.Fatalf("expected no chunks, got %#v", chunks)
	}
}
