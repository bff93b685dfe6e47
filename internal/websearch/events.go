package websearch

import "github.com/hollis/periscope/internal/logger"

// Outcome classifies how a search call or a parse stage ended.
type Outcome string

const (
	OutcomeResults         Outcome = "results"
	OutcomeEmpty           Outcome = "empty"
	OutcomeFallback        Outcome = "fallback"
	OutcomeTransportError  Outcome = "transport_error"
	OutcomeBadResponse     Outcome = "bad_response"
	OutcomeUnknownProvider Outcome = "unknown_provider"
	OutcomeUnconfigured    Outcome = "unconfigured"
)

// Parse tiers reported by the metasearch adapter. Tier is empty for events
// that describe a whole call rather than one parsing stage.
const (
	TierJSON  = "json"
	TierDOM   = "dom"
	TierRegex = "regex"
)

// Event is one diagnostic record. A Search emits one call-level event plus
// zero or more tier-level events from the adapter's parse chain.
type Event struct {
	Provider string
	Tier     string
	Outcome  Outcome
	Results  int
	Err      error
}

// EventSink receives diagnostic events. Sinks must not retain the event's
// Err beyond the call.
type EventSink func(Event)

// logEvent is the default sink: it writes events to the application log,
// failures at WARN and ordinary outcomes at DEBUG.
func logEvent(ev Event) {
	switch ev.Outcome {
	case OutcomeTransportError, OutcomeBadResponse, OutcomeUnknownProvider, OutcomeUnconfigured:
		logger.Warn("web search: provider=%s tier=%s outcome=%s err=%v", ev.Provider, ev.Tier, ev.Outcome, ev.Err)
	case OutcomeFallback:
		logger.Info("web search: provider=%s tier=%s outcome=%s results=%d err=%v", ev.Provider, ev.Tier, ev.Outcome, ev.Results, ev.Err)
	default:
		logger.Debug("web search: provider=%s tier=%s outcome=%s results=%d", ev.Provider, ev.Tier, ev.Outcome, ev.Results)
	}
}

// emitter carries the diagnostic sink shared by adapters built through a
// Client. The zero value is silent.
type emitter struct {
	sink EventSink
}

func (e *emitter) setSink(sink EventSink) {
	e.sink = sink
}

func (e *emitter) emit(ev Event) {
	if e.sink != nil {
		e.sink(ev)
	}
}
