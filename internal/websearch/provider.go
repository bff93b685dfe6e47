package websearch

import (
	"context"
	"fmt"
)

// snippetMax is the cutoff applied when deriving a snippet from content.
const snippetMax = 300

// defaultUserAgent identifies non-metasearch requests.
const defaultUserAgent = "Periscope/0.1 (+https://github.com/hollis/periscope)"

// Result is a single normalized search result entry.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
}

// Provider performs web searches against one backend. Implementations are
// stateless across calls; the result count is fixed at construction.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// makeSnippet bounds content for prompt use: anything past 300 characters
// is cut and marked with an ellipsis.
func makeSnippet(content string) string {
	if len(content) > snippetMax {
		return content[:snippetMax] + "..."
	}
	return content
}

func newResult(title, url, content string) Result {
	return Result{
		Title:   title,
		URL:     url,
		Content: content,
		Snippet: makeSnippet(content),
	}
}

// fallbackResults builds the single synthetic result emitted when a provider
// that promises output produced none. The caller still gets something to
// hand the model, and the model learns the search came up dry.
func fallbackResults(query string) []Result {
	return []Result{{
		Title: "Web search attempted for: " + query,
		URL:   "",
		Content: fmt.Sprintf("I attempted to search for '%s' but the search APIs are currently unavailable. "+
			"I can still help with general knowledge about this topic based on my training data.", query),
		Snippet: fmt.Sprintf("Search attempted for: %s (APIs unavailable)", query),
	}}
}
