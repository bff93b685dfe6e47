package websearch

import "context"

// KeyGatedProvider stands in for backends that cannot be queried without
// API credentials (Google Custom Search, Bing Web Search). It acknowledges
// the configuration with a warning event and yields nothing; credential
// management is out of scope for this client.
type KeyGatedProvider struct {
	emitter
	name string
}

func NewKeyGatedProvider(name string) *KeyGatedProvider {
	return &KeyGatedProvider{name: name}
}

func (p *KeyGatedProvider) Name() string {
	return p.name
}

func (p *KeyGatedProvider) Search(ctx context.Context, query string) ([]Result, error) {
	p.emit(Event{Provider: p.name, Outcome: OutcomeUnconfigured})
	return []Result{}, nil
}
