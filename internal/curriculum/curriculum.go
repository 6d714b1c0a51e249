// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package curriculum runs the four-agent curriculum crew and saves the
// result as JSON and Word files. Existing curricula for the same topic and
// audience can be reused or updated instead of starting over.
package curriculum

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/crewforge/internal/crew"
	"github.com/pdiddy/crewforge/internal/docx"
	"github.com/pdiddy/crewforge/internal/export"
	"github.com/pdiddy/crewforge/internal/naming"
	"github.com/pdiddy/crewforge/internal/prompt"
	"github.com/pdiddy/crewforge/pkg/types"
)

// DefaultDuration is the course length when none is given.
const DefaultDuration = "8 weeks"

// taskNames are the curriculum crew tasks in Curriculum field order.
var taskNames = []string{"outline", "material", "assessment", "resources"}

// ErrIncompleteCrew is returned when the crew does not produce all four
// section outputs.
var ErrIncompleteCrew = errors.New("crew did not return the expected four task outputs")

// IncompleteError carries the raw crew output when a curriculum could not be
// assembled.
type IncompleteError struct {
	Got int
	Raw string
	Err error
}

func (e *IncompleteError) Error() string {
	msg := fmt.Sprintf("%s (got %d)", ErrIncompleteCrew, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IncompleteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIncompleteCrew}
	}
	return []error{ErrIncompleteCrew, e.Err}
}

// Outcome describes how a curriculum was obtained.
type Outcome struct {
	Action prompt.Choice

	// Source is the existing file that was reused or updated.
	Source string

	// RunID identifies the crew run. It is zero when the curriculum was
	// reused.
	RunID uuid.UUID
}

// Reused reports whether the curriculum was loaded without calling the crew.
func (o Outcome) Reused() bool { return o.Action == prompt.Reuse }

// Designer produces curricula.
type Designer struct {
	Crew crew.Options

	// Chooser is asked what to do when a curriculum already exists. Nil
	// always creates a new one.
	Chooser prompt.Chooser

	// Out receives progress messages. Nil discards them.
	Out io.Writer

	OutputDir string
	Duration  string

	// SpecDir optionally overrides the embedded curriculum crew.
	SpecDir string
}

// Run returns the curriculum for topic and audience.
func (d *Designer) Run(ctx context.Context, topic, audience string) (*types.Curriculum, Outcome, error) {
	out := d.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "Starting curriculum design for: %s\n", topic)

	outcome := Outcome{Action: prompt.CreateNew}
	var pastContent string

	existing, err := naming.FindExisting(d.OutputDir, naming.CurriculumPrefix(topic, audience), "json")
	if err != nil {
		return nil, outcome, err
	}
	if len(existing) > 0 && d.Chooser != nil {
		notice := fmt.Sprintf("Found existing module for '%s' and '%s'.", topic, audience)
		choice, err := d.Chooser.Choose(ctx, notice)
		if err != nil {
			return nil, outcome, err
		}
		latest := existing[0]

		switch choice {
		case prompt.Reuse:
			var c types.Curriculum
			if err := export.ReadJSON(latest, &c); err != nil {
				return nil, outcome, err
			}
			return &c, Outcome{Action: prompt.Reuse, Source: latest}, nil
		case prompt.Update:
			data, err := os.ReadFile(latest)
			if err != nil {
				return nil, outcome, fmt.Errorf("reading %s: %w", latest, err)
			}
			pastContent = string(data)
			outcome = Outcome{Action: prompt.Update, Source: latest}
		}
	}

	spec, err := crew.LoadSpec(crew.Curriculum, d.SpecDir)
	if err != nil {
		return nil, outcome, err
	}

	duration := d.Duration
	if strings.TrimSpace(duration) == "" {
		duration = DefaultDuration
	}
	inputs := map[string]string{
		"topic":           topic,
		"target_audience": audience,
		"duration":        duration,
		"past_content":    pastContent,
	}

	res, err := crew.Kickoff(ctx, d.Crew, spec, inputs)
	outcome.RunID = res.RunID
	if err != nil {
		if errors.Is(err, crew.ErrNoOutput) {
			return nil, outcome, &IncompleteError{Got: len(res.Tasks), Raw: res.Raw(), Err: err}
		}
		return nil, outcome, err
	}

	c, err := Assemble(topic, audience, res)
	if err != nil {
		return nil, outcome, err
	}
	return c, outcome, nil
}

// Assemble maps the four crew outputs onto a Curriculum.
func Assemble(topic, audience string, res crew.Result) (*types.Curriculum, error) {
	sections := make([]string, len(taskNames))
	for i, name := range taskNames {
		raw, ok := res.Output(name)
		if !ok {
			return nil, &IncompleteError{Got: len(res.Tasks), Raw: res.Raw()}
		}
		sections[i] = raw
	}
	if len(res.Tasks) != len(taskNames) {
		return nil, &IncompleteError{Got: len(res.Tasks), Raw: res.Raw()}
	}

	return &types.Curriculum{
		Topic:            topic,
		TargetAudience:   audience,
		ModuleOutline:    sections[0],
		LearningMaterial: sections[1],
		Assessments:      sections[2],
		Resources:        sections[3],
	}, nil
}

// Paths are the files written by Save.
type Paths struct {
	JSON string
	DOCX string
}

// Save writes c as JSON and, unless skipDocx is set, as a Word document.
// Both files share one timestamp taken from now.
func Save(c *types.Curriculum, dir string, now time.Time, skipDocx bool) (Paths, error) {
	ts := naming.Timestamp(now)
	p := Paths{JSON: naming.CurriculumFile(dir, c.Topic, c.TargetAudience, ts, "json")}

	if err := export.WriteJSON(p.JSON, c, export.CurriculumIndent); err != nil {
		return Paths{}, err
	}
	if skipDocx {
		return p, nil
	}

	p.DOCX = naming.CurriculumFile(dir, c.Topic, c.TargetAudience, ts, "docx")
	if err := docx.Write(p.DOCX, c); err != nil {
		return Paths{}, err
	}
	return p, nil
}
