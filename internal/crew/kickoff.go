// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crew

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/crewforge/internal/llm"
	"github.com/pdiddy/crewforge/internal/tools"
)

// ErrNoOutput is returned when a task finishes without any text.
var ErrNoOutput = errors.New("task produced no output")

// PreviewLength is the number of characters logged for a finished task.
const PreviewLength = 100

const contextDivider = "\n\n----------\n\n"

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Options configure a kickoff.
type Options struct {
	Backend     llm.Backend
	Tools       *tools.Registry
	Temperature float64

	// MaxRetries is the number of extra attempts per task after a failed
	// model call.
	MaxRetries int

	// Callback runs after each task completes.
	Callback func(TaskOutput)

	// AllowEmpty records a blank task output and continues instead of
	// failing with ErrNoOutput.
	AllowEmpty bool
}

// TaskOutput is the result of one task.
type TaskOutput struct {
	Name      string
	Agent     string
	Raw       string
	ToolCalls int
	Duration  time.Duration
}

// Result holds the task outputs of a kickoff in execution order.
type Result struct {
	RunID uuid.UUID
	Tasks []TaskOutput
}

// Output returns the raw output of the named task.
func (r Result) Output(name string) (string, bool) {
	for _, t := range r.Tasks {
		if t.Name == name {
			return t.Raw, true
		}
	}
	return "", false
}

// Raw joins all task outputs.
func (r Result) Raw() string {
	parts := make([]string, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		parts = append(parts, t.Raw)
	}
	return strings.Join(parts, "\n\n")
}

// Kickoff validates spec and runs its tasks in order. The returned Result
// holds every task that completed, also when an error stops the crew.
func Kickoff(ctx context.Context, opts Options, spec Spec, inputs map[string]string) (Result, error) {
	res := Result{RunID: uuid.New()}

	if opts.Backend == nil {
		return res, fmt.Errorf("crew %s: no model backend", spec.Name)
	}
	reg := opts.Tools
	if reg == nil {
		reg = tools.Default()
	}
	if err := spec.Validate(reg); err != nil {
		return res, err
	}

	log := slog.With(slog.String("crew", spec.Name), slog.String("run_id", res.RunID.String()))
	log.Info("crew started", slog.Int("tasks", len(spec.Tasks)), slog.String("backend", opts.Backend.Name()))

	outputs := make(map[string]string, len(spec.Tasks))
	for i, task := range spec.Tasks {
		agent := spec.Agents[task.Agent]

		req, err := buildRequest(agent, task, inputs, taskContext(spec, i, outputs), reg)
		if err != nil {
			return res, err
		}
		req.Temperature = opts.Temperature

		log.Info("task started", slog.String("task", task.Name), slog.String("agent", agent.Role))
		start := time.Now()

		resp, err := callWithRetry(ctx, opts.Backend, req, opts.MaxRetries)
		switch {
		case err == nil:
		case errors.Is(err, llm.ErrEmptyResponse) && opts.AllowEmpty:
			resp = llm.Response{}
		case errors.Is(err, llm.ErrEmptyResponse):
			return res, fmt.Errorf("task %s: %w: %w", task.Name, ErrNoOutput, err)
		default:
			return res, fmt.Errorf("task %s: %w", task.Name, err)
		}
		if strings.TrimSpace(resp.Text) == "" {
			if !opts.AllowEmpty {
				return res, fmt.Errorf("task %s: %w", task.Name, ErrNoOutput)
			}
			log.Warn("task produced no output", slog.String("task", task.Name))
		}

		out := TaskOutput{
			Name:      task.Name,
			Agent:     agent.Role,
			Raw:       resp.Text,
			ToolCalls: resp.ToolCalls,
			Duration:  time.Since(start),
		}
		outputs[task.Name] = out.Raw
		res.Tasks = append(res.Tasks, out)

		log.Info("task completed",
			slog.String("task", task.Name),
			slog.Int("tool_calls", out.ToolCalls),
			slog.Duration("duration", out.Duration),
			slog.String("preview", Preview(out.Raw, PreviewLength)))

		if opts.Callback != nil {
			opts.Callback(out)
		}
	}

	log.Info("crew finished")
	return res, nil
}

// taskContext collects the outputs a task sees: its named context tasks, or
// the previous task when none are named.
func taskContext(spec Spec, i int, outputs map[string]string) string {
	task := spec.Tasks[i]
	if len(task.Context) == 0 {
		if i == 0 {
			return ""
		}
		return outputs[spec.Tasks[i-1].Name]
	}
	parts := make([]string, 0, len(task.Context))
	for _, name := range task.Context {
		parts = append(parts, outputs[name])
	}
	return strings.Join(parts, contextDivider)
}

func buildRequest(agent AgentSpec, task TaskSpec, inputs map[string]string, taskCtx string, reg *tools.Registry) (llm.Request, error) {
	desc, err := render(task.Name+".description", task.Description, inputs)
	if err != nil {
		return llm.Request{}, err
	}
	expected, err := render(task.Name+".expected_output", task.ExpectedOutput, inputs)
	if err != nil {
		return llm.Request{}, err
	}

	var ts []tools.Tool
	for _, name := range agent.Tools {
		t, err := reg.Get(name)
		if err != nil {
			return llm.Request{}, err
		}
		ts = append(ts, t)
	}

	return llm.Request{
		System: systemPrompt(agent),
		Prompt: taskPrompt(desc, expected, taskCtx),
		Tools:  ts,
	}, nil
}

func systemPrompt(a AgentSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\n", a.Role, a.Backstory)
	fmt.Fprintf(&b, "Your personal goal is: %s", a.Goal)
	return b.String()
}

func taskPrompt(desc, expected, taskCtx string) string {
	var b strings.Builder
	b.WriteString("Current Task: ")
	b.WriteString(strings.TrimSpace(desc))
	b.WriteString("\n\nThis is the expected criteria for your final answer: ")
	b.WriteString(strings.TrimSpace(expected))
	b.WriteString("\nYou MUST return the actual complete content as the final answer, not a summary.")
	if strings.TrimSpace(taskCtx) != "" {
		b.WriteString("\n\nThis is the context you're working with:\n")
		b.WriteString(taskCtx)
	}
	return b.String()
}

// callWithRetry calls the backend with exponential backoff. Context
// cancellation is not retried.
func callWithRetry(ctx context.Context, backend llm.Backend, req llm.Request, maxRetries int) (llm.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			slog.Debug("retrying task", slog.Int("attempt", attempt), slog.Duration("wait", backoff), slog.Any("error", lastErr))
			select {
			case <-ctx.Done():
				return llm.Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return llm.Response{}, ctx.Err()
		}
		lastErr = err
	}
	if maxRetries == 0 {
		return llm.Response{}, lastErr
	}
	return llm.Response{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// Preview returns the first n runes of s followed by "..." when s is longer.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
