package agent

import (
	"context"
	"fmt"

	"github.com/hollis/periscope/internal/config"
	"github.com/hollis/periscope/internal/history"
	"github.com/hollis/periscope/internal/llm"
	"github.com/hollis/periscope/internal/trigger"
	"github.com/hollis/periscope/internal/websearch"
)

// SearchClient runs one web search per call. Implementations never return an
// error: a failed search is an empty result set, so a turn proceeds with or
// without search context.
type SearchClient interface {
	Search(ctx context.Context, query string) []websearch.Result
}

// Agent conversation core: history, optional web search, LLM round trip
type Agent struct {
	config         *config.Config
	promptConfig   *config.PromptConfig
	llm            *llm.Client
	history        history.Store
	search         SearchClient
	sessionID      string
	maxContextMsgs int
	searchEnabled  bool
	streamHandler  func(content string)
	searchHandler  func(query string, results int)
}

// Option agent configuration option
type Option func(*Agent)

// WithStreamHandler sets the stream output handler
func WithStreamHandler(handler func(content string)) Option {
	return func(a *Agent) {
		a.streamHandler = handler
	}
}

// WithSearchNoticeHandler sets the handler called after each web search,
// before the LLM round trip
func WithSearchNoticeHandler(handler func(query string, results int)) Option {
	return func(a *Agent) {
		a.searchHandler = handler
	}
}

// New creates a new Agent instance. search may be nil when web search is
// disabled.
func New(cfg *config.Config, llmClient *llm.Client, store history.Store, search SearchClient, opts ...Option) (*Agent, error) {
	// Load prompt configuration
	promptCfg, err := config.LoadPromptConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt config: %w", err)
	}

	agent := &Agent{
		config:         cfg,
		promptConfig:   promptCfg,
		llm:            llmClient,
		history:        store,
		search:         search,
		maxContextMsgs: cfg.History.MaxContextMessages,
		searchEnabled:  cfg.WebSearch.Enabled && search != nil,
	}

	// Apply options
	for _, opt := range opts {
		opt(agent)
	}

	// Initialize session
	if err := agent.initSession(); err != nil {
		return nil, err
	}

	return agent, nil
}

// initSession initializes the session
func (a *Agent) initSession() error {
	// Try to get the latest session
	session, err := a.history.GetLatestSession()
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session != nil {
		a.sessionID = session.ID
		return nil
	}

	// Create new session
	sessionID, err := a.history.CreateSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	a.sessionID = sessionID
	return nil
}

// NewSession creates a new session
func (a *Agent) NewSession() error {
	sessionID, err := a.history.CreateSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	a.sessionID = sessionID
	return nil
}

// ClearSession clears the current session
func (a *Agent) ClearSession() error {
	if err := a.history.ClearSession(a.sessionID); err != nil {
		return err
	}
	return a.NewSession()
}

// SetSearchEnabled toggles web search for subsequent turns. Enabling has no
// effect when the agent was built without a search client.
func (a *Agent) SetSearchEnabled(enabled bool) {
	a.searchEnabled = enabled && a.search != nil
}

// SearchEnabled reports whether web search is active
func (a *Agent) SearchEnabled() bool {
	return a.searchEnabled
}

// Chat processes user message and returns response
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	// Save user message
	if err := a.history.SaveMessage(a.sessionID, &history.Message{
		SessionID: a.sessionID,
		Role:      "user",
		Content:   userMessage,
	}); err != nil {
		return "", fmt.Errorf("failed to save user message: %w", err)
	}

	// Run a web search when the message asks for current information.
	// Search failure never aborts the turn: the client contains every
	// provider error and hands back an empty set.
	searchContext := ""
	if a.searchEnabled && trigger.ShouldSearch(userMessage) {
		results := a.search.Search(ctx, userMessage)
		if a.searchHandler != nil {
			a.searchHandler(userMessage, len(results))
		}
		if len(results) > 0 {
			searchContext = a.promptConfig.GetSearchInstruction() + websearch.FormatResults(results)
		}
	}

	// Build message list
	messages, err := a.buildMessages(userMessage, searchContext)
	if err != nil {
		return "", fmt.Errorf("failed to build messages: %w", err)
	}

	// Call LLM
	var resp *llm.ChatResponse
	if a.streamHandler != nil {
		resp, err = a.llm.ChatStream(ctx, messages, a.streamHandler)
	} else {
		resp, err = a.llm.Chat(ctx, messages)
	}
	if err != nil {
		return "", fmt.Errorf("failed to call LLM: %w", err)
	}

	// Save assistant response
	if resp.Content != "" {
		if err := a.history.SaveMessage(a.sessionID, &history.Message{
			SessionID: a.sessionID,
			Role:      "assistant",
			Content:   resp.Content,
		}); err != nil {
			return "", fmt.Errorf("failed to save assistant message: %w", err)
		}
	}

	return resp.Content, nil
}

// buildMessages builds the message list
func (a *Agent) buildMessages(userMessage, searchContext string) ([]llm.Message, error) {
	// Get system prompt from config
	systemPrompt := a.promptConfig.GetSystemPrompt()

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
	}

	// Load history messages
	historyMsgs, err := a.history.GetMessages(a.sessionID, a.maxContextMsgs)
	if err != nil {
		return nil, fmt.Errorf("failed to get history messages: %w", err)
	}

	// Convert history message format (exclude current message as it will be added at the end)
	for _, msg := range historyMsgs {
		// Skip the just-saved user message
		if msg.Role == "user" && msg.Content == userMessage {
			continue
		}

		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	// Search results ride along as an extra system message next to the user
	// message they were fetched for
	if searchContext != "" {
		messages = append(messages, llm.Message{
			Role:    "system",
			Content: searchContext,
		})
	}

	// Add current user message
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: userMessage,
	})

	return messages, nil
}

// SessionID returns the current session ID
func (a *Agent) SessionID() string {
	return a.sessionID
}
