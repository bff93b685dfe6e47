package websearch

import "testing"

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty defaults to local deployment", "", "http://localhost:8080"},
		{"local host without scheme gets http", "localhost:9090", "http://localhost:9090"},
		{"external host without scheme gets https", "example.com/", "https://example.com"},
		{"loopback gets http", "127.0.0.1:8888", "http://127.0.0.1:8888"},
		{"private range gets http", "192.168.1.5:8080", "http://192.168.1.5:8080"},
		{"ten dot prefix gets http", "10.0.0.2", "http://10.0.0.2"},
		{"existing https kept", "https://search.example.com/", "https://search.example.com"},
		{"existing http kept", "http://example.com", "http://example.com"},
		{"trailing slashes stripped", "https://example.com///", "https://example.com"},
		{"whitespace trimmed", "  localhost:8080  ", "http://localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeBaseURL(tt.input); got != tt.want {
				t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// The scheme heuristic is substring-based. A host that merely contains a
// marker is treated as local; this pins the known limitation so a change
// shows up as a test failure, not a surprise.
func TestNormalizeBaseURLHeuristicLimits(t *testing.T) {
	if got := normalizeBaseURL("172.5.1.1"); got != "http://172.5.1.1" {
		t.Errorf("Expected non-private 172 address to still get http, got %q", got)
	}
	if got := normalizeBaseURL("my10.host.example"); got != "http://my10.host.example" {
		t.Errorf("Expected marker substring match to force http, got %q", got)
	}
}
