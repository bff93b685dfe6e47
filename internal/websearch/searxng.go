package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// metasearchUserAgent is browser-like on purpose: public SearXNG
// deployments commonly reject default HTTP client agents.
const metasearchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SearXNGProvider queries a self-hosted SearXNG deployment. The response may
// be structured JSON or, depending on version and configuration, a rendered
// HTML results page; parsing degrades JSON -> DOM -> regex.
type SearXNGProvider struct {
	emitter
	baseURL   string
	userAgent string
	count     int
	client    *http.Client
}

func NewSearXNGProvider(baseURL, userAgent string, count int, timeout time.Duration) *SearXNGProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = metasearchUserAgent
	}
	if count <= 0 {
		count = DefaultResultsCount
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SearXNGProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		count:     count,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *SearXNGProvider) Name() string {
	return ProviderSearXNG
}

type searxngResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type searxngResponse struct {
	Results []searxngResult `json:"results"`
}

// searchEndpoint builds the request URL from the configured base. Legacy
// configurations may embed a <query> placeholder; those are cut at the
// first "?" before the path is normalized. A path not already ending in
// /search gets it appended, so bare hosts and deployment sub-paths both
// work. Query parameters supplied with the base URL survive.
func (p *SearXNGProvider) searchEndpoint() (*url.URL, error) {
	base := p.baseURL
	if strings.Contains(base, "<query>") {
		if i := strings.Index(base, "?"); i >= 0 {
			base = base[:i]
		}
	}

	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !strings.HasSuffix(endpoint.Path, "/search") {
		trimmed := strings.TrimRight(endpoint.Path, "/")
		if trimmed == "" {
			endpoint.Path = "/search"
		} else {
			endpoint.Path = trimmed + "/search"
		}
	}
	return endpoint, nil
}

func (p *SearXNGProvider) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	endpoint, err := p.searchEndpoint()
	if err != nil {
		return nil, err
	}

	params := endpoint.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("pageno", "1")
	params.Set("safesearch", "1")
	params.Set("language", "en-US")
	params.Set("time_range", "")
	params.Set("categories", "")
	params.Set("theme", "simple")
	params.Set("image_proxy", "0")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: p.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseFormatError{Provider: p.Name(), Status: resp.StatusCode, Detail: bodyPreview(body)}
	}

	// A 200 body that is not JSON is treated as a rendered results page.
	if !json.Valid(body) {
		return p.parseHTMLChain(string(body)), nil
	}
	return p.parseJSON(body)
}

// parseJSON handles the structured tier. A body that is valid JSON but has
// the wrong shape stops the chain: it is a provider fault, not a reason to
// scan JSON for HTML markup.
func (p *SearXNGProvider) parseJSON(body []byte) ([]Result, error) {
	var payload searxngResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		p.emit(Event{Provider: p.Name(), Tier: TierJSON, Outcome: OutcomeBadResponse, Err: err})
		return nil, &ResponseFormatError{Provider: p.Name(), Detail: "results field missing or invalid"}
	}

	sorted := make([]searxngResult, len(payload.Results))
	copy(sorted, payload.Results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	results := make([]Result, 0, p.count)
	for _, item := range sorted {
		if len(results) >= p.count {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		results = append(results, newResult(title, strings.TrimSpace(item.URL), strings.TrimSpace(item.Content)))
	}

	outcome := OutcomeResults
	if len(results) == 0 {
		outcome = OutcomeEmpty
	}
	p.emit(Event{Provider: p.Name(), Tier: TierJSON, Outcome: outcome, Results: len(results)})
	return results, nil
}

// parseHTMLChain runs the degraded tiers in order: DOM first, tolerant
// regex second. Each tier either yields results or passes the same body to
// the next; nothing in the chain returns an error to the caller.
func (p *SearXNGProvider) parseHTMLChain(body string) []Result {
	results, err := parseResultHTML(body, p.count)
	if err == nil && len(results) > 0 {
		p.emit(Event{Provider: p.Name(), Tier: TierDOM, Outcome: OutcomeResults, Results: len(results)})
		return results
	}
	if err != nil {
		p.emit(Event{Provider: p.Name(), Tier: TierDOM, Outcome: OutcomeBadResponse, Err: err})
	} else {
		p.emit(Event{Provider: p.Name(), Tier: TierDOM, Outcome: OutcomeEmpty})
	}

	results = parseResultHTMLRegex(body, p.count)
	outcome := OutcomeResults
	if len(results) == 0 {
		outcome = OutcomeEmpty
	}
	p.emit(Event{Provider: p.Name(), Tier: TierRegex, Outcome: outcome, Results: len(results)})
	return results
}

// bodyPreview truncates an error body for logging; 500 bytes is enough to
// see what the deployment actually returned.
func bodyPreview(body []byte) string {
	const max = 500
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
