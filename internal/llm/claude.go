// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/crewforge/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const claudeMaxTokens = 8192

// ClaudeBackend calls the Anthropic Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string

	// BaseURL replaces the host of claudeAPIURL when set.
	BaseURL string
	Client  *http.Client

	// MaxToolIterations defaults to DefaultMaxToolIterations.
	MaxToolIterations int
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature float64         `json:"temperature"`
	Tools       []claudeTool    `json:"tools,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation. Content
// is either a string or a list of content blocks.
type claudeMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type claudeTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type claudeToolResult struct {
	Type      string `json:"type"`
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
}

func (c *ClaudeBackend) Name() string { return "anthropic" }

// Complete calls the Claude API and answers tool_use blocks until the model
// stops with text.
func (c *ClaudeBackend) Complete(ctx context.Context, req Request) (Response, error) {
	body := claudeRequest{
		Model:       c.Model,
		MaxTokens:   claudeMaxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: req.Prompt},
		},
	}
	for _, t := range req.Tools {
		schema, err := schemaMap(t)
		if err != nil {
			return Response{}, err
		}
		body.Tools = append(body.Tools, claudeTool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: schema,
		})
	}

	maxIter := c.MaxToolIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxToolIterations
	}

	var resp Response
	for iter := 0; ; iter++ {
		cResp, err := c.send(ctx, body)
		if err != nil {
			return Response{}, err
		}

		var (
			text    strings.Builder
			results []claudeToolResult
		)
		for _, block := range cResp.Content {
			switch block.Type {
			case "text":
				text.WriteString(block.Text)
			case "tool_use":
				slog.Debug("tool call", slog.String("tool", block.Name), slog.String("args", string(block.Input)))
				results = append(results, claudeToolResult{
					Type:      "tool_result",
					ToolUseID: block.ID,
					Content:   invokeTool(ctx, req.Tools, block.Name, block.Input),
				})
				resp.ToolCalls++
			}
		}

		if len(results) == 0 {
			if strings.TrimSpace(text.String()) == "" {
				return Response{}, ErrEmptyResponse
			}
			resp.Text = text.String()
			return resp, nil
		}
		if iter >= maxIter {
			return Response{}, fmt.Errorf("%w (%d iterations)", ErrToolLoop, maxIter)
		}

		body.Messages = append(body.Messages,
			claudeMessage{Role: "assistant", Content: cResp.Content},
			claudeMessage{Role: "user", Content: results},
		)
	}
}

func (c *ClaudeBackend) endpoint() string {
	if c.BaseURL == "" {
		return claudeAPIURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/v1/messages"
}

func (c *ClaudeBackend) send(ctx context.Context, body claudeRequest) (*claudeResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, transportRetries)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(data))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, fmt.Errorf("decoding Claude response: %w", err)
	}
	return &cResp, nil
}
