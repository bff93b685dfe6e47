package websearch

import "strings"

// localMarkers mark hosts that get http instead of https when the scheme is
// missing. This is a substring heuristic, not host parsing: "172." matches
// addresses outside the RFC1918 172.16/12 block too, and a marker anywhere
// in the string counts. Kept as-is; callers who need exact schemes should
// configure them explicitly.
var localMarkers = []string{"localhost", "127.0.0.1", "192.168.", "10.", "172."}

// normalizeBaseURL canonicalizes a configured base URL: trailing slashes are
// dropped and a missing scheme is filled in, http for local-looking hosts
// and https otherwise. Empty input maps to the default local deployment.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "http://localhost:8080"
	}

	raw = strings.TrimRight(raw, "/")

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	for _, marker := range localMarkers {
		if strings.Contains(raw, marker) {
			return "http://" + raw
		}
	}
	return "https://" + raw
}
