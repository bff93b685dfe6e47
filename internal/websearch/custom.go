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

// CustomProvider targets any JSON search API exposing GET {base}/search.
// It tolerates the common response vocabularies instead of demanding one
// schema. Unlike the instant-answer and encyclopedia adapters it reports
// nothing found as an empty set, never a synthetic result.
type CustomProvider struct {
	emitter
	baseURL   string
	userAgent string
	count     int
	client    *http.Client
}

func NewCustomProvider(baseURL, userAgent string, count int, timeout time.Duration) *CustomProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "http://localhost:8080"
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
	return &CustomProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		count:     count,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *CustomProvider) Name() string {
	return ProviderCustom
}

type customItem struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Content     string `json:"content"`
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}

func (it customItem) title() string {
	if it.Title != "" {
		return it.Title
	}
	return it.Name
}

func (it customItem) link() string {
	if it.URL != "" {
		return it.URL
	}
	return it.Link
}

func (it customItem) body() string {
	if it.Content != "" {
		return it.Content
	}
	if it.Snippet != "" {
		return it.Snippet
	}
	return it.Description
}

type customResponse struct {
	Results []customItem `json:"results"`
	Items   []customItem `json:"items"`
	Data    []customItem `json:"data"`
}

// items picks the result array from whichever key is present, first match
// wins; a present-but-empty array still wins.
func (r customResponse) items() []customItem {
	if r.Results != nil {
		return r.Results
	}
	if r.Items != nil {
		return r.Items
	}
	return r.Data
}

func (p *CustomProvider) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	endpoint, err := url.Parse(p.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(p.count))
	params.Set("format", "json")
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

	var payload customResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ResponseFormatError{Provider: p.Name(), Detail: fmt.Sprintf("failed to decode response: %v", err)}
	}

	items := payload.items()
	if len(items) > p.count {
		items = items[:p.count]
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.title())
		if title == "" {
			continue
		}
		results = append(results, newResult(title, strings.TrimSpace(item.link()), strings.TrimSpace(item.body())))
	}
	return results, nil
}
