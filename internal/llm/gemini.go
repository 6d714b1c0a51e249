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

	"github.com/tidwall/gjson"

	"github.com/pdiddy/crewforge/internal/httputil"
	"github.com/pdiddy/crewforge/internal/tools"
)

// geminiAPIBase is the Generative Language API host. Package-level var for
// test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com"

// GeminiBackend calls the Gemini generateContent REST endpoint.
type GeminiBackend struct {
	APIKey string
	Model  string

	// BaseURL overrides geminiAPIBase.
	BaseURL string
	Client  *http.Client

	// MaxToolIterations defaults to DefaultMaxToolIterations.
	MaxToolIterations int
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []any                  `json:"contents"`
	Tools             []geminiTool           `json:"tools,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiFunctionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// geminiCall is a functionCall part of a model turn.
type geminiCall struct {
	name string
	args []byte
}

func (g *GeminiBackend) Name() string { return "gemini" }

// Complete sends the prompt and resolves function calls until the model
// answers with text.
func (g *GeminiBackend) Complete(ctx context.Context, req Request) (Response, error) {
	body := geminiRequest{
		Contents: []any{
			geminiContent{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	if len(req.Tools) > 0 {
		decls, err := geminiDeclarations(req.Tools)
		if err != nil {
			return Response{}, err
		}
		body.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	maxIter := g.MaxToolIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxToolIterations
	}

	var resp Response
	for iter := 0; ; iter++ {
		raw, err := g.generate(ctx, body)
		if err != nil {
			return Response{}, err
		}

		text, calls, modelTurn, err := parseGeminiResponse(raw)
		if err != nil {
			return Response{}, err
		}
		if len(calls) == 0 {
			if strings.TrimSpace(text) == "" {
				return Response{}, ErrEmptyResponse
			}
			resp.Text = text
			return resp, nil
		}
		if iter >= maxIter {
			return Response{}, fmt.Errorf("%w (%d iterations)", ErrToolLoop, maxIter)
		}

		// The model turn is echoed verbatim so thought signatures survive.
		body.Contents = append(body.Contents, modelTurn)
		results := geminiContent{Role: "user"}
		for _, c := range calls {
			slog.Debug("tool call", slog.String("tool", c.name), slog.String("args", string(c.args)))
			out := invokeTool(ctx, req.Tools, c.name, c.args)
			results.Parts = append(results.Parts, geminiPart{
				FunctionResponse: &geminiFunctionResponse{
					Name:     c.name,
					Response: map[string]any{"result": out},
				},
			})
			resp.ToolCalls++
		}
		body.Contents = append(body.Contents, results)
	}
}

func (g *GeminiBackend) endpoint() string {
	base := g.BaseURL
	if base == "" {
		base = geminiAPIBase
	}
	model := strings.TrimPrefix(g.Model, "gemini/")
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(base, "/"), model)
}

func (g *GeminiBackend) generate(ctx context.Context, body geminiRequest) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := httputil.DoWithRetry(ctx, g.Client, req, transportRetries)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = string(data)
		}
		return nil, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, msg)
	}
	return data, nil
}

// parseGeminiResponse returns the concatenated text parts, any function
// calls, and the raw model content of the first candidate.
func parseGeminiResponse(data []byte) (string, []geminiCall, json.RawMessage, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, nil, fmt.Errorf("decoding Gemini response: invalid JSON")
	}

	content := gjson.GetBytes(data, "candidates.0.content")
	if !content.Exists() {
		if reason := gjson.GetBytes(data, "promptFeedback.blockReason").String(); reason != "" {
			return "", nil, nil, fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, reason)
		}
		if reason := gjson.GetBytes(data, "candidates.0.finishReason").String(); reason != "" {
			return "", nil, nil, fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, reason)
		}
		return "", nil, nil, ErrEmptyResponse
	}

	var (
		text  strings.Builder
		calls []geminiCall
	)
	content.Get("parts").ForEach(func(_, part gjson.Result) bool {
		if fc := part.Get("functionCall"); fc.Exists() {
			args := []byte(fc.Get("args").Raw)
			if len(args) == 0 {
				args = []byte("{}")
			}
			calls = append(calls, geminiCall{name: fc.Get("name").String(), args: args})
			return true
		}
		if part.Get("thought").Bool() {
			return true
		}
		text.WriteString(part.Get("text").String())
		return true
	})

	return text.String(), calls, json.RawMessage(content.Raw), nil
}

func geminiDeclarations(ts []tools.Tool) ([]geminiFunctionDeclaration, error) {
	decls := make([]geminiFunctionDeclaration, 0, len(ts))
	for _, t := range ts {
		params, err := schemaMap(t)
		if err != nil {
			return nil, err
		}
		decls = append(decls, geminiFunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  params,
		})
	}
	return decls, nil
}

// schemaMap converts a tool's parameter schema into a plain JSON object.
func schemaMap(t tools.Tool) (map[string]any, error) {
	data, err := json.Marshal(t.Parameters())
	if err != nil {
		return nil, fmt.Errorf("encoding schema for tool %s: %w", t.Name(), err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding schema for tool %s: %w", t.Name(), err)
	}
	return m, nil
}
