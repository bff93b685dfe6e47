package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// searchmatchReplacer strips the highlight markers the search API embeds in
// hit snippets.
var searchmatchReplacer = strings.NewReplacer(`<span class="searchmatch">`, "", `</span>`, "")

// WikipediaProvider queries the MediaWiki search API and maps each hit to
// its canonical article URL. Like the instant-answer adapter it never
// returns an empty set.
type WikipediaProvider struct {
	emitter
	baseURL   string
	userAgent string
	count     int
	client    *http.Client
}

func NewWikipediaProvider(baseURL, userAgent string, count int, timeout time.Duration) *WikipediaProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://en.wikipedia.org"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if count <= 0 {
		count = DefaultResultsCount
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WikipediaProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		count:     count,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *WikipediaProvider) Name() string {
	return ProviderWikipedia
}

type wikiHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type wikiResponse struct {
	Query struct {
		Search []wikiHit `json:"search"`
	} `json:"query"`
}

func (p *WikipediaProvider) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	endpoint, err := url.Parse(p.baseURL + "/w/api.php")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(p.count))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

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
		return nil, &ResponseFormatError{Provider: p.Name(), Status: resp.StatusCode, Detail: "search request rejected"}
	}

	var payload wikiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ResponseFormatError{Provider: p.Name(), Detail: fmt.Sprintf("failed to decode response: %v", err)}
	}

	hits := payload.Query.Search
	if len(hits) > p.count {
		hits = hits[:p.count]
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		title := strings.TrimSpace(hit.Title)
		if title == "" {
			continue
		}
		content := strings.TrimSpace(searchmatchReplacer.Replace(hit.Snippet))
		articleURL := p.baseURL + "/wiki/" + strings.ReplaceAll(title, " ", "_")
		results = append(results, newResult(title, articleURL, content))
	}

	if len(results) == 0 {
		p.emit(Event{Provider: p.Name(), Outcome: OutcomeFallback, Results: 1})
		return fallbackResults(query), nil
	}
	return results, nil
}
