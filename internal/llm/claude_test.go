// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/crewforge/internal/tools"
)

func TestClaudeComplete_Text(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"content":[{"type":"text","text":"Hi"}],"stop_reason":"end_turn"}`)
	}))
	defer srv.Close()

	c := &ClaudeBackend{APIKey: "k", Model: "claude-test", BaseURL: srv.URL}
	resp, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hello", Temperature: 0.8})
	require.NoError(t, err)

	assert.Equal(t, "Hi", resp.Text)
	assert.Equal(t, "k", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "claude-test", gjson.GetBytes(gotBody, "model").String())
	assert.Equal(t, "sys", gjson.GetBytes(gotBody, "system").String())
	assert.Equal(t, "hello", gjson.GetBytes(gotBody, "messages.0.content").String())
	assert.InDelta(t, 0.8, gjson.GetBytes(gotBody, "temperature").Float(), 1e-9)
}

func TestClaudeComplete_PackageURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"content":[{"type":"text","text":"ok"}]}`)
	}))
	defer srv.Close()

	orig := claudeAPIURL
	claudeAPIURL = srv.URL
	defer func() { claudeAPIURL = orig }()

	c := &ClaudeBackend{APIKey: "k", Model: "m"}
	resp, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

func TestClaudeComplete_ToolLoop(t *testing.T) {
	var calls int32
	var second []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if atomic.AddInt32(&calls, 1) == 1 {
			assert.Equal(t, "echo", gjson.GetBytes(body, "tools.0.name").String())
			assert.Equal(t, "object", gjson.GetBytes(body, "tools.0.input_schema.type").String())
			io.WriteString(w, `{"content":[{"type":"text","text":"Let me look."},{"type":"tool_use","id":"tu_1","name":"echo","input":{"value":"x"}}],"stop_reason":"tool_use"}`)
			return
		}
		second = body
		io.WriteString(w, `{"content":[{"type":"text","text":"final"}],"stop_reason":"end_turn"}`)
	}))
	defer srv.Close()

	c := &ClaudeBackend{APIKey: "k", Model: "m", BaseURL: srv.URL}
	resp, err := c.Complete(context.Background(), Request{Prompt: "p", Tools: []tools.Tool{echoTool{}}})
	require.NoError(t, err)

	assert.Equal(t, "final", resp.Text)
	assert.Equal(t, 1, resp.ToolCalls)

	msgs := gjson.GetBytes(second, "messages").Array()
	require.Len(t, msgs, 3)
	assert.Equal(t, "assistant", msgs[1].Get("role").String())
	assert.Equal(t, "tool_use", msgs[1].Get("content.1.type").String())
	assert.Equal(t, "tool_result", msgs[2].Get("content.0.type").String())
	assert.Equal(t, "tu_1", msgs[2].Get("content.0.tool_use_id").String())
	assert.Equal(t, `echo:{"value":"x"}`, msgs[2].Get("content.0.content").String())
}

func TestClaudeComplete_TransportRetriesBounded(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &ClaudeBackend{APIKey: "k", Model: "m", BaseURL: srv.URL}
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(transportRetries+1), atomic.LoadInt32(&calls))
}

func TestClaudeComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"internal"}`},
		{name: "empty content", status: http.StatusOK, body: `{"content":[]}`, wantErr: ErrEmptyResponse},
		{name: "invalid json", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := &ClaudeBackend{APIKey: "k", Model: "m", BaseURL: srv.URL}
			_, err := c.Complete(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
