package llm

import (
	"context"
	"testing"
)

func TestIsReasoningModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"o1", true},
		{"o3-mini", true},
		{"o4-mini", true},
		{"gpt-5", true},
		{"gpt-5-mini", true},
		{"gpt-4.1", false},
		{"gpt-4o", false},
		{"claude-sonnet-4-20250514", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := isReasoningModel(tt.model); got != tt.want {
				t.Errorf("isReasoningModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(1000, 500)
	tracker.Add(2000, 1500)

	in, out := tracker.Total()
	if in != 3000 || out != 2000 {
		t.Errorf("Total() = %d, %d; want 3000, 2000", in, out)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}

	tracker.Reset()
	in, out = tracker.Total()
	if in != 0 || out != 0 || tracker.Calls() != 0 {
		t.Error("Reset did not clear usage")
	}
}

func TestTokenTrackerCost(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(1_000_000, 1_000_000)

	if cost := tracker.Cost(); cost != 10.0 {
		t.Errorf("Cost() = %v, want 10.0", cost)
	}
}

type countingProvider struct {
	calls int
}

func (c *countingProvider) Complete(context.Context, Request) (*Response, error) {
	c.calls++
	return &Response{Text: "ok", TokensIn: 7, TokensOut: 11}, nil
}

func (c *countingProvider) Model() string { return "test-model" }

func TestClientTracksUsage(t *testing.T) {
	provider := &countingProvider{}
	client := NewClient(provider)

	if _, err := client.Complete(context.Background(), Request{Prompt: "hi"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Complete(context.Background(), Request{Prompt: "again"}); err != nil {
		t.Fatal(err)
	}

	in, out := client.Tracker().Total()
	if in != 14 || out != 22 {
		t.Errorf("tracked %d/%d, want 14/22", in, out)
	}
	if client.Model() != "test-model" {
		t.Errorf("Model() = %q", client.Model())
	}
}
