// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt asks the user what to do when a curriculum for the same
// topic and audience already exists.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Choice is the action taken on an existing curriculum.
type Choice int

const (
	// CreateNew ignores the existing file and runs the crew from scratch.
	CreateNew Choice = iota
	// Reuse loads the newest existing file without calling the model.
	Reuse
	// Update runs the crew with the newest file as prior content.
	Update
)

func (c Choice) String() string {
	switch c {
	case Reuse:
		return "reuse"
	case Update:
		return "update"
	default:
		return "create"
	}
}

// ErrCancelled is returned when the user aborts the prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Question is the line shown after the notice.
const Question = "Do you want to [r]e-use, [u]pdate, or [c]reate new? "

// ParseChoice maps user input to a Choice. "r" and "reuse" select Reuse,
// "u" and "update" select Update; anything else creates a new curriculum.
func ParseChoice(s string) Choice {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "reuse":
		return Reuse
	case "u", "update":
		return Update
	default:
		return CreateNew
	}
}

// Chooser decides what to do with an existing curriculum. notice describes
// what was found.
type Chooser interface {
	Choose(ctx context.Context, notice string) (Choice, error)
}

// Fixed always returns the same choice. It backs the --reuse flag.
type Fixed Choice

func (f Fixed) Choose(context.Context, string) (Choice, error) { return Choice(f), nil }

// LineChooser prints the notice and reads one line of input.
type LineChooser struct {
	In  io.Reader
	Out io.Writer
}

func (l LineChooser) Choose(ctx context.Context, notice string) (Choice, error) {
	fmt.Fprintln(l.Out, notice)
	fmt.Fprint(l.Out, Question)

	type result struct {
		line string
		err  error
	}
	// On cancellation the reader goroutine stays blocked on In until input
	// arrives or the process exits. The CLI exits right after a cancelled
	// prompt, so LineChooser is not meant to be reused after ctx is done.
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(l.In).ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return CreateNew, ctx.Err()
	case r := <-ch:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return CreateNew, fmt.Errorf("reading choice: %w", r.err)
		}
		return ParseChoice(r.line), nil
	}
}
