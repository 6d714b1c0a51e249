// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends agent prompts to a language model and runs the
// function-calling loop for agents that carry tools.
//
// Three transports are provided: the Gemini REST API, the Anthropic Messages
// API, and any OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/crewforge/internal/tools"
	"github.com/pdiddy/crewforge/pkg/types"
)

var (
	// ErrEmptyResponse is returned when the model answers without any text.
	ErrEmptyResponse = errors.New("model returned no text")

	// ErrToolLoop is returned when the model keeps requesting tools past
	// MaxToolIterations.
	ErrToolLoop = errors.New("tool call limit exceeded")
)

// DefaultMaxToolIterations bounds the request/tool-call round trips of one
// Complete call.
const DefaultMaxToolIterations = 5

const defaultTimeout = 120 * time.Second

// transportRetries is the number of 429/503 retries made by the REST
// transports for one request. The crew executor retries the whole task on
// top of this, so it is kept small.
const transportRetries = 2

// Backend completes one agent turn. Implementations execute any tool calls
// the model makes and return the final text.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request is one agent prompt.
type Request struct {
	// System carries the agent persona (role, backstory, goal).
	System string

	// Prompt is the task description with its context.
	Prompt string

	Temperature float64

	// Tools the model may call. Nil disables function calling.
	Tools []tools.Tool
}

// Response is the final model answer.
type Response struct {
	Text string

	// ToolCalls counts tool invocations made while producing Text.
	ToolCalls int
}

// New returns the backend selected by cfg.Provider.
func New(cfg types.LLMConfig, apiKey string) (Backend, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case types.ProviderGemini, "":
		return &GeminiBackend{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Client:  client,
		}, nil
	case types.ProviderAnthropic:
		return &ClaudeBackend{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Client:  client,
		}, nil
	case types.ProviderOpenAI:
		return NewOpenAIBackend(apiKey, cfg.Model, cfg.BaseURL, client), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q: use gemini, anthropic, or openai", cfg.Provider)
	}
}

// findTool returns the tool named name from ts.
func findTool(ts []tools.Tool, name string) (tools.Tool, error) {
	for _, t := range ts {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("model called unknown tool %q", name)
}

// invokeTool runs a tool call. Tool failures are reported back to the model
// as text instead of aborting the turn.
func invokeTool(ctx context.Context, ts []tools.Tool, name string, args []byte) string {
	t, err := findTool(ts, name)
	if err != nil {
		return "error: " + err.Error()
	}
	out, err := t.Call(ctx, args)
	if err != nil {
		return "error: " + err.Error()
	}
	return out
}
