package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDuckDuckGoSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "golang" {
			t.Errorf("Expected query 'golang', got %q", q.Get("q"))
		}
		if q.Get("format") != "json" {
			t.Errorf("Expected format=json, got %q", q.Get("format"))
		}
		if q.Get("no_html") != "1" {
			t.Errorf("Expected no_html=1, got %q", q.Get("no_html"))
		}
		if q.Get("skip_disambig") != "1" {
			t.Errorf("Expected skip_disambig=1, got %q", q.Get("skip_disambig"))
		}
		if q.Get("no_redirect") != "1" {
			t.Errorf("Expected no_redirect=1, got %q", q.Get("no_redirect"))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"Heading": "Go (programming language)",
			"Abstract": "Go is a statically typed language designed at Google.",
			"AbstractURL": "https://en.wikipedia.org/wiki/Go_(programming_language)",
			"RelatedTopics": [
				{"Text": "Gopher - The project mascot", "FirstURL": "https://go.dev/gopher"},
				{"Text": "Goroutine - A lightweight thread", "FirstURL": "https://go.dev/goroutine"}
			]
		}`)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 5, 5*time.Second)
	results, err := p.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected abstract plus 2 topics, got %d results", len(results))
	}

	// Abstract first, heading as title
	if results[0].Title != "Go (programming language)" {
		t.Errorf("Expected heading as first title, got %q", results[0].Title)
	}
	if results[0].URL != "https://en.wikipedia.org/wiki/Go_(programming_language)" {
		t.Errorf("Expected abstract URL, got %q", results[0].URL)
	}

	// Topic titles are the text before " - ", content keeps the full text
	if results[1].Title != "Gopher" {
		t.Errorf("Expected topic title 'Gopher', got %q", results[1].Title)
	}
	if results[1].Content != "Gopher - The project mascot" {
		t.Errorf("Expected full topic text as content, got %q", results[1].Content)
	}
	if results[2].Title != "Goroutine" {
		t.Errorf("Expected topic title 'Goroutine', got %q", results[2].Title)
	}
}

func TestDuckDuckGoSearchAbstractWithoutHeading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Abstract": "Some answer text.", "AbstractURL": "https://a.example"}`)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 5, 5*time.Second)
	results, err := p.Search(context.Background(), "obscure topic")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	// The query stands in for a missing heading
	if results[0].Title != "obscure topic" {
		t.Errorf("Expected query as title, got %q", results[0].Title)
	}
}

func TestDuckDuckGoSearchJSONPUnwrap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-javascript")
		fmt.Fprint(w, `ddg_spice_dictionary({"Heading": "Wrapped", "Abstract": "Unwrapped from the callback.", "AbstractURL": "https://w.example"});`)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 5, 5*time.Second)
	results, err := p.Search(context.Background(), "define wrapped")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result from the JSONP envelope, got %d", len(results))
	}
	if results[0].Title != "Wrapped" {
		t.Errorf("Expected unwrapped heading, got %q", results[0].Title)
	}
	if results[0].Content != "Unwrapped from the callback." {
		t.Errorf("Expected unwrapped abstract, got %q", results[0].Content)
	}
}

func TestDuckDuckGoSearchJSONPEnvelopeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-javascript")
		fmt.Fprint(w, `window.callback({"Abstract": "unreachable"})`)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 5, 5*time.Second)
	var events []Event
	p.setSink(func(ev Event) { events = append(events, ev) })

	results, err := p.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	// An unparseable javascript body degrades to the synthetic fallback
	if len(results) != 1 {
		t.Fatalf("Expected the fallback result, got %d results", len(results))
	}
	if !strings.Contains(results[0].Content, "anything") {
		t.Errorf("Fallback content should name the query, got %q", results[0].Content)
	}
	if len(events) != 1 || events[0].Outcome != OutcomeFallback {
		t.Errorf("Expected a fallback event, got %+v", events)
	}
}

func TestDuckDuckGoSearchEmptyGivesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Heading": "", "Abstract": "", "RelatedTopics": []}`)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 5, 5*time.Second)
	var events []Event
	p.setSink(func(ev Event) { events = append(events, ev) })

	results, err := p.Search(context.Background(), "very obscure query")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// This adapter never reports nothing: an empty instant answer becomes
	// exactly one synthetic result naming the query.
	if len(results) != 1 {
		t.Fatalf("Expected exactly 1 fallback result, got %d", len(results))
	}
	if !strings.Contains(results[0].Title, "very obscure query") {
		t.Errorf("Fallback title should contain the query, got %q", results[0].Title)
	}
	if results[0].URL != "" {
		t.Errorf("Fallback result should have no URL, got %q", results[0].URL)
	}
	if len(events) != 1 || events[0].Outcome != OutcomeFallback || events[0].Results != 1 {
		t.Errorf("Expected a fallback event with 1 result, got %+v", events)
	}
}

func TestDuckDuckGoSearchTopicWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// First topic is a group entry (no Text); it is skipped but still
		// occupies a slot in the considered window.
		fmt.Fprint(w, `{
			"Heading": "Topic",
			"Abstract": "Abstract text.",
			"AbstractURL": "https://t.example",
			"RelatedTopics": [
				{"Text": "", "FirstURL": ""},
				{"Text": "Kept - inside the window", "FirstURL": "https://kept.example"},
				{"Text": "Dropped - outside the window", "FirstURL": "https://dropped.example"}
			]
		}`)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 3, 5*time.Second)
	results, err := p.Search(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected abstract plus 1 topic, got %d results", len(results))
	}
	if results[1].Title != "Kept" {
		t.Errorf("Expected the topic inside the window, got %q", results[1].Title)
	}
}

func TestDuckDuckGoSearchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider(server.URL, "", 5, 5*time.Second)
	_, err := p.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected an error for a non-200 response")
	}
	if !IsResponseFormatError(err) {
		t.Errorf("Expected a ResponseFormatError, got %T: %v", err, err)
	}
}

func TestDuckDuckGoSearchEmptyQuery(t *testing.T) {
	p := NewDuckDuckGoProvider("http://unused.example", "", 5, time.Second)
	if _, err := p.Search(context.Background(), "   "); err == nil {
		t.Error("Expected an error for an empty query")
	}
}
