// Package trigger decides whether a chat message warrants a web search.
package trigger

import (
	"strings"

	"github.com/hollis/periscope/internal/logger"
)

// searchTriggers are phrases that suggest the user wants current or
// factual information. Matching is a plain substring scan, so broad
// words like "new" or "current" fire inside larger words too ("news",
// "currently"); that over-triggering is acceptable for a heuristic
// whose failure mode is just an extra search.
var searchTriggers = []string{
	"search for",
	"look up",
	"find information about",
	"what is",
	"what are",
	"tell me about",
	"latest news",
	"current events",
	"recent",
	"news",
	"updates",
	"today",
	"this week",
	"this month",
	"this year",
	"2024",
	"2025",
	"2026",
	"latest",
	"current",
	"new",
	"happening",
}

// ShouldSearch reports whether the message contains a search trigger phrase.
func ShouldSearch(message string) bool {
	lower := strings.ToLower(message)
	for _, t := range searchTriggers {
		if strings.Contains(lower, t) {
			logger.Debug("search trigger matched %q in message", t)
			return true
		}
	}
	return false
}
