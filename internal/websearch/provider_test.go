package websearch

import (
	"strings"
	"testing"
)

func TestMakeSnippet(t *testing.T) {
	long := strings.Repeat("x", 400)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short content unchanged", "a brief summary", "a brief summary"},
		{"empty content unchanged", "", ""},
		{"exactly at the limit unchanged", strings.Repeat("x", 300), strings.Repeat("x", 300)},
		{"long content truncated with ellipsis", long, long[:300] + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeSnippet(tt.content); got != tt.want {
				t.Errorf("makeSnippet returned %d chars, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestNewResultDerivesSnippet(t *testing.T) {
	long := strings.Repeat("y", 301)
	r := newResult("Title", "https://example.com", long)

	if r.Content != long {
		t.Error("Expected content to be stored untruncated")
	}
	if r.Snippet != long[:300]+"..." {
		t.Errorf("Expected truncated snippet, got %d chars", len(r.Snippet))
	}

	short := newResult("Title", "", "short")
	if short.Snippet != "short" {
		t.Errorf("Expected snippet to equal content below the limit, got %q", short.Snippet)
	}
}

func TestFallbackResults(t *testing.T) {
	results := fallbackResults("rust 1.80 release")

	if len(results) != 1 {
		t.Fatalf("Expected exactly one synthetic result, got %d", len(results))
	}
	r := results[0]
	if r.Title != "Web search attempted for: rust 1.80 release" {
		t.Errorf("Unexpected synthetic title: %q", r.Title)
	}
	if r.URL != "" {
		t.Errorf("Expected empty URL on synthetic result, got %q", r.URL)
	}
	if !strings.Contains(r.Content, "'rust 1.80 release'") {
		t.Errorf("Expected content to name the query, got %q", r.Content)
	}
	if !strings.Contains(r.Snippet, "(APIs unavailable)") {
		t.Errorf("Expected snippet to flag unavailable APIs, got %q", r.Snippet)
	}
}
