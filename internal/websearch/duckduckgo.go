package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// jsonpRe pulls the JSON argument out of a ddg_spice_*(...) callback
// envelope. The API returns the envelope for some spice-backed queries even
// when format=json is requested.
var jsonpRe = regexp.MustCompile(`(?s)ddg_spice_\w+\((.*)\);?$`)

// DuckDuckGoProvider queries the DuckDuckGo Instant Answer API. The API
// answers encyclopedic queries only, so the adapter never returns an empty
// set: when nothing comes back it emits the synthetic fallback result.
type DuckDuckGoProvider struct {
	emitter
	baseURL   string
	userAgent string
	count     int
	client    *http.Client
}

func NewDuckDuckGoProvider(baseURL, userAgent string, count int, timeout time.Duration) *DuckDuckGoProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.duckduckgo.com"
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
	return &DuckDuckGoProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		count:     count,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *DuckDuckGoProvider) Name() string {
	return ProviderDuckDuckGo
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	Abstract      string     `json:"Abstract"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	endpoint, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")
	params.Set("no_redirect", "1")
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
		return nil, &ResponseFormatError{Provider: p.Name(), Status: resp.StatusCode, Detail: "instant answer request rejected"}
	}

	raw := strings.TrimSpace(string(body))
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "javascript") || strings.HasPrefix(raw, "ddg_spice_") {
		m := jsonpRe.FindStringSubmatch(raw)
		if m == nil {
			p.emit(Event{Provider: p.Name(), Outcome: OutcomeFallback, Results: 1, Err: errors.New("jsonp envelope did not match")})
			return fallbackResults(query), nil
		}
		raw = m[1]
	}

	var payload ddgResponse
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &ResponseFormatError{Provider: p.Name(), Detail: fmt.Sprintf("failed to decode response: %v", err)}
	}

	results := make([]Result, 0, p.count)
	if payload.Abstract != "" {
		title := payload.Heading
		if title == "" {
			title = query
		}
		results = append(results, newResult(title, payload.AbstractURL, payload.Abstract))
	}

	// Topic groups decode with an empty Text and are skipped, but they
	// still consume a slot from the window considered here.
	topics := payload.RelatedTopics
	if len(topics) > p.count-1 {
		topics = topics[:p.count-1]
	}
	for _, topic := range topics {
		text := strings.TrimSpace(topic.Text)
		if text == "" {
			continue
		}
		title := text
		if i := strings.Index(text, " - "); i >= 0 {
			title = text[:i]
		}
		results = append(results, newResult(title, topic.FirstURL, text))
	}

	if len(results) == 0 {
		p.emit(Event{Provider: p.Name(), Outcome: OutcomeFallback, Results: 1})
		return fallbackResults(query), nil
	}
	if len(results) > p.count {
		results = results[:p.count]
	}
	return results, nil
}
