package websearch

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Known provider names. Adding a backend means adding a name here and an
// entry in providerBuilders; the dispatch set is closed on purpose.
const (
	ProviderSearXNG    = "searxng"
	ProviderDuckDuckGo = "duckduckgo"
	ProviderWikipedia  = "wikipedia"
	ProviderGoogle     = "google"
	ProviderBing       = "bing"
	ProviderCustom     = "custom"
)

const (
	DefaultResultsCount = 5
	DefaultTimeout      = 15 * time.Second
)

// Config selects and shapes the backend for one client.
type Config struct {
	Provider     string
	BaseURL      string
	ResultsCount int
	UserAgent    string
	Timeout      time.Duration
}

// providerBuilders is the strategy table mapping provider names to adapter
// constructors.
var providerBuilders = map[string]func(cfg Config) Provider{
	ProviderSearXNG: func(cfg Config) Provider {
		return NewSearXNGProvider(cfg.BaseURL, cfg.UserAgent, cfg.ResultsCount, cfg.Timeout)
	},
	ProviderDuckDuckGo: func(cfg Config) Provider {
		return NewDuckDuckGoProvider("", cfg.UserAgent, cfg.ResultsCount, cfg.Timeout)
	},
	ProviderWikipedia: func(cfg Config) Provider {
		return NewWikipediaProvider("", cfg.UserAgent, cfg.ResultsCount, cfg.Timeout)
	},
	ProviderGoogle: func(cfg Config) Provider {
		return NewKeyGatedProvider(ProviderGoogle)
	},
	ProviderBing: func(cfg Config) Provider {
		return NewKeyGatedProvider(ProviderBing)
	},
	ProviderCustom: func(cfg Config) Provider {
		return NewCustomProvider(cfg.BaseURL, cfg.UserAgent, cfg.ResultsCount, cfg.Timeout)
	},
}

// fallbackProviders marks the adapters whose failure contract is a synthetic
// result instead of an empty set. The asymmetry is inherited behavior the
// downstream prompt builder may rely on, so it stays explicit here rather
// than being unified.
var fallbackProviders = map[string]bool{
	ProviderDuckDuckGo: true,
	ProviderWikipedia:  true,
}

// Client dispatches queries to the configured provider and contains every
// provider failure: Search never returns an error. A client is built once
// per conversation session and is stateless across calls.
type Client struct {
	cfg      Config
	provider Provider
	sink     EventSink
}

// NewClient builds the adapter for cfg.Provider. The base URL is normalized
// here, once; an unrecognized provider name leaves the client with no
// adapter, which Search reports per call.
func NewClient(cfg Config) *Client {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)
	if cfg.ResultsCount <= 0 {
		cfg.ResultsCount = DefaultResultsCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{cfg: cfg, sink: logEvent}
	if build, ok := providerBuilders[cfg.Provider]; ok {
		c.provider = build(cfg)
		if obs, ok := c.provider.(interface{ setSink(EventSink) }); ok {
			obs.setSink(c.emit)
		}
	}
	return c
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.cfg.Provider
}

// SetEventSink replaces the diagnostic sink. Passing nil restores the
// default sink, which writes events to the application log.
func (c *Client) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = logEvent
	}
	c.sink = sink
}

func (c *Client) emit(ev Event) {
	if c.sink != nil {
		c.sink(ev)
	}
}

// Search runs one query against the configured provider. Failures never
// escape: a broken or unknown provider yields an empty set, or the
// synthetic fallback result for the providers that promise at least one
// entry. Exactly one adapter call is made; there is no retry and no
// fan-out.
func (c *Client) Search(ctx context.Context, query string) []Result {
	if c.provider == nil {
		c.emit(Event{Provider: c.cfg.Provider, Outcome: OutcomeUnknownProvider})
		return []Result{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		c.emit(Event{Provider: c.cfg.Provider, Outcome: OutcomeEmpty})
		return []Result{}
	}

	results, err := c.provider.Search(ctx, query)
	if err != nil {
		if fallbackProviders[c.cfg.Provider] {
			results = fallbackResults(query)
			c.emit(Event{Provider: c.cfg.Provider, Outcome: OutcomeFallback, Results: len(results), Err: err})
			return results
		}
		outcome := OutcomeBadResponse
		var te *TransportError
		if errors.As(err, &te) {
			outcome = OutcomeTransportError
		}
		c.emit(Event{Provider: c.cfg.Provider, Outcome: outcome, Err: err})
		return []Result{}
	}

	if len(results) == 0 {
		c.emit(Event{Provider: c.cfg.Provider, Outcome: OutcomeEmpty})
		return []Result{}
	}
	c.emit(Event{Provider: c.cfg.Provider, Outcome: OutcomeResults, Results: len(results)})
	return results
}
