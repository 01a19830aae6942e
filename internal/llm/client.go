// Package llm provides the hosted-LLM client used by every pipeline agent.
// It shapes parameters per model family and tracks token usage.
package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrEmptyCompletion is returned when the API responds without usable text.
// Empty output is surfaced as an error so malformed content never flows
// downstream looking like a real article.
var ErrEmptyCompletion = errors.New("model returned no usable text")

// Effort controls the reasoning budget for models that support it.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Request is a single completion request.
type Request struct {
	// System is the system prompt, optional.
	System string
	// Prompt is the user message.
	Prompt string
	// MaxTokens caps the completion length.
	MaxTokens int
	// Temperature is ignored for reasoning model families.
	Temperature float64
	// ReasoningEffort applies only to reasoning model families.
	ReasoningEffort Effort
}

// Response is the extracted result of a completion request.
type Response struct {
	// Text is the completion text, never empty on success.
	Text string
	// TokensIn is the prompt token count reported by the API.
	TokensIn int64
	// TokensOut is the completion token count reported by the API.
	TokensOut int64
}

// Provider is a hosted text-generation backend.
type Provider interface {
	// Complete performs one completion round-trip.
	Complete(ctx context.Context, req Request) (*Response, error)
	// Model returns the configured model name.
	Model() string
}

// Client wraps a Provider with token tracking shared across the run.
type Client struct {
	provider Provider
	tracker  *TokenTracker
}

// NewClient creates a client around the given provider.
func NewClient(p Provider) *Client {
	return &Client{provider: p, tracker: NewTokenTracker()}
}

// Complete runs a completion and records its token usage.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	c.tracker.Add(resp.TokensIn, resp.TokensOut)
	return resp, nil
}

// Model returns the underlying provider's model name.
func (c *Client) Model() string {
	return c.provider.Model()
}

// Tracker returns the token tracker for this client.
func (c *Client) Tracker() *TokenTracker {
	return c.tracker
}

// isReasoningModel reports whether the model family rejects a temperature
// parameter and accepts a reasoning-effort knob instead.
func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Reset clears all tracked token usage.
func (t *TokenTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok = 0
	t.outputTok = 0
	t.calls = 0
}

// Cost estimates the cost in USD based on current list pricing.
// This uses approximate pricing and should be updated as pricing changes.
func (t *TokenTracker) Cost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Mid-tier pricing: $2/1M input, $8/1M output (approximate)
	inputCost := float64(t.inputTok) / 1_000_000 * 2.0
	outputCost := float64(t.outputTok) / 1_000_000 * 8.0
	return inputCost + outputCost
}
