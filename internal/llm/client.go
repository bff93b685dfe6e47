// Package llm is a chat client for OpenAI-compatible completion endpoints.
// The default deployment target is a local Ollama server, which speaks the
// same wire format and needs no API key.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const completionsPath = "/v1/chat/completions"

// Message is one chat turn on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Content string `json:"content"`
}

// StreamHandler receives each content delta as it arrives.
type StreamHandler func(content string)

// Client calls one configured model endpoint. Safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// New builds a client. The generation timeout is deliberately long: local
// models can take a while to produce a full answer.
func New(apiKey, baseURL, model string, temperature float64, maxTokens int) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

type apiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type apiChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	Delta        Message `json:"delta"`
	FinishReason string  `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

type apiResponse struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Error   *apiError   `json:"error,omitempty"`
}

// Chat sends the conversation and waits for the full reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (*ChatResponse, error) {
	return c.complete(ctx, messages, nil)
}

// ChatStream sends the conversation and forwards content deltas to handler
// as they arrive. The returned response carries the assembled content.
func (c *Client) ChatStream(ctx context.Context, messages []Message, handler StreamHandler) (*ChatResponse, error) {
	if handler == nil {
		handler = func(string) {}
	}
	return c.complete(ctx, messages, handler)
}

// complete runs one request; a non-nil handler selects the streaming wire
// mode.
func (c *Client) complete(ctx context.Context, messages []Message, handler StreamHandler) (*ChatResponse, error) {
	payload, err := json.Marshal(apiRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      handler != nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Ollama is keyless; send the header only when a key is configured.
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned error (status %d): %s", resp.StatusCode, string(body))
	}

	if handler != nil {
		return decodeStream(resp.Body, handler)
	}
	return decodeResponse(resp.Body)
}

func decodeResponse(body io.Reader) (*ChatResponse, error) {
	var resp apiResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("API returned empty response")
	}
	return &ChatResponse{Content: resp.Choices[0].Message.Content}, nil
}

// decodeStream reads SSE data lines until the [DONE] sentinel. Lines that
// are not data, or that do not decode, are skipped rather than failing the
// whole stream.
func decodeStream(body io.Reader, handler StreamHandler) (*ChatResponse, error) {
	var content strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk apiResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil || len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			content.WriteString(delta)
			handler(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read streaming response: %w", err)
	}

	return &ChatResponse{Content: content.String()}, nil
}

// ChatWithRetry retries Chat with a linear backoff.
func (c *Client) ChatWithRetry(ctx context.Context, messages []Message, maxRetries int) (*ChatResponse, error) {
	return retry(ctx, maxRetries, func() (*ChatResponse, error) {
		return c.Chat(ctx, messages)
	})
}

// ChatStreamWithRetry retries ChatStream with a linear backoff. The handler
// may see partial output from a failed attempt before the retry.
func (c *Client) ChatStreamWithRetry(ctx context.Context, messages []Message, handler StreamHandler, maxRetries int) (*ChatResponse, error) {
	return retry(ctx, maxRetries, func() (*ChatResponse, error) {
		return c.ChatStream(ctx, messages, handler)
	})
}

func retry(ctx context.Context, maxRetries int, call func() (*ChatResponse, error)) (*ChatResponse, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		resp, err := call()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i == maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(time.Duration(i+1) * time.Second):
		}
	}
	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
