package websearch

import (
	"fmt"
	"strings"
)

// FormatResults renders a result set as the numbered block handed to the
// model. Pure function: no I/O, input is not mutated.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No search results found."
	}

	var b strings.Builder
	b.WriteString("Here are some relevant search results:\n")
	for i, result := range results {
		title := result.Title
		if title == "" {
			title = "Untitled"
		}
		snippet := result.Snippet
		if snippet == "" {
			snippet = "No description available."
		}

		fmt.Fprintf(&b, "\n%d. **%s**\n", i+1, title)
		if result.URL != "" {
			fmt.Fprintf(&b, "   URL: %s\n", result.URL)
		}
		fmt.Fprintf(&b, "   %s\n", snippet)
	}
	return b.String()
}
