// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIBackend calls an OpenAI-compatible chat completions endpoint. Gemini
// exposes one at https://generativelanguage.googleapis.com/v1beta/openai/.
type OpenAIBackend struct {
	client *openai.Client
	model  string

	// MaxToolIterations defaults to DefaultMaxToolIterations.
	MaxToolIterations int
}

// NewOpenAIBackend builds a backend for model. An empty baseURL uses the
// OpenAI API.
func NewOpenAIBackend(apiKey, model, baseURL string, httpClient *http.Client) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// Retries are owned by the crew executor.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (o *OpenAIBackend) Name() string { return "openai" }

// Complete runs the chat completion and resolves tool calls.
func (o *OpenAIBackend) Complete(ctx context.Context, req Request) (Response, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.F(o.model),
		N:           openai.Int(1),
		Temperature: openai.Float(req.Temperature),
	}
	if len(req.Tools) > 0 {
		defs := make([]openai.ChatCompletionToolParam, 0, len(req.Tools))
		for _, t := range req.Tools {
			schema, err := schemaMap(t)
			if err != nil {
				return Response{}, err
			}
			def := openai.FunctionDefinitionParam{
				Name:       openai.String(t.Name()),
				Parameters: openai.F(shared.FunctionParameters(schema)),
			}
			if strings.TrimSpace(t.Description()) != "" {
				def.Description = openai.String(t.Description())
			}
			defs = append(defs, openai.ChatCompletionToolParam{
				Type:     openai.F(openai.ChatCompletionToolTypeFunction),
				Function: openai.F(def),
			})
		}
		params.Tools = openai.F(defs)
	}

	maxIter := o.MaxToolIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxToolIterations
	}

	var resp Response
	for iter := 0; ; iter++ {
		params.Messages = openai.F(msgs)

		chat, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return Response{}, fmt.Errorf("calling chat completions: %w", err)
		}
		if len(chat.Choices) == 0 {
			return Response{}, ErrEmptyResponse
		}

		choice := chat.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			if strings.TrimSpace(choice.Content) == "" {
				return Response{}, ErrEmptyResponse
			}
			resp.Text = choice.Content
			return resp, nil
		}
		if iter >= maxIter {
			return Response{}, fmt.Errorf("%w (%d iterations)", ErrToolLoop, maxIter)
		}

		tcd := make([]openai.ChatCompletionMessageToolCallParam, len(choice.ToolCalls))
		for i, tc := range choice.ToolCalls {
			tcd[i] = openai.ChatCompletionMessageToolCallParam{
				ID:   openai.String(tc.ID),
				Type: openai.F(openai.ChatCompletionMessageToolCallTypeFunction),
				Function: openai.F(openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      openai.String(tc.Function.Name),
					Arguments: openai.String(tc.Function.Arguments),
				}),
			}
		}
		msgs = append(msgs, openai.ChatCompletionMessageParam{
			Role:      openai.F(openai.ChatCompletionMessageParamRoleAssistant),
			ToolCalls: openai.F[any](tcd),
		})

		for _, tc := range choice.ToolCalls {
			slog.Debug("tool call", slog.String("tool", tc.Function.Name), slog.String("args", tc.Function.Arguments))
			out := invokeTool(ctx, req.Tools, tc.Function.Name, []byte(tc.Function.Arguments))
			msgs = append(msgs, openai.ToolMessage(tc.ID, out))
			resp.ToolCalls++
		}
	}
}
