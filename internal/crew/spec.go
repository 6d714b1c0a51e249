// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crew runs a sequential crew of LLM agents. A crew is declared in
// YAML: agents carry a persona and optional tools, tasks carry a templated
// description and expected output and are executed strictly in order.
package crew

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crewforge/internal/tools"
)

// ProcessSequential is the only supported process.
const ProcessSequential = "sequential"

// Built-in crew names.
const (
	Curriculum = "curriculum"
	Report     = "report"
)

//go:embed specs/*.yaml
var builtin embed.FS

// AgentSpec describes one agent persona.
type AgentSpec struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`

	// Tools lists tool names resolved through a tools.Registry.
	Tools []string `yaml:"tools,omitempty"`

	// AllowDelegation is accepted for compatibility and must be false.
	AllowDelegation bool `yaml:"allow_delegation,omitempty"`
}

// TaskSpec describes one unit of work assigned to an agent.
type TaskSpec struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`

	// Agent is a key of Spec.Agents.
	Agent string `yaml:"agent"`

	// Context names earlier tasks whose outputs are passed to this task.
	// When empty the previous task's output is used.
	Context []string `yaml:"context,omitempty"`
}

// Spec is a complete crew definition.
type Spec struct {
	Name    string               `yaml:"name"`
	Process string               `yaml:"process"`
	Agents  map[string]AgentSpec `yaml:"agents"`
	Tasks   []TaskSpec           `yaml:"tasks"`
}

// LoadSpec returns the crew named name. When overrideDir contains
// <name>.yaml that file is used instead of the embedded definition.
func LoadSpec(name, overrideDir string) (Spec, error) {
	file := name + ".yaml"

	var (
		data []byte
		err  error
	)
	if overrideDir != "" {
		data, err = os.ReadFile(filepath.Join(overrideDir, file))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Spec{}, fmt.Errorf("reading crew %s: %w", name, err)
		}
	}
	if data == nil {
		data, err = builtin.ReadFile("specs/" + file)
		if err != nil {
			return Spec{}, fmt.Errorf("unknown crew %q", name)
		}
	}
	return ParseSpec(data)
}

// ParseSpec decodes a crew definition from YAML.
func ParseSpec(data []byte) (Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("parsing crew YAML: %w", err)
	}
	if s.Process == "" {
		s.Process = ProcessSequential
	}
	return s, nil
}

// Validate checks that every task references a known agent, that context
// references point to earlier tasks, and that every agent tool is present
// in reg. A nil reg skips the tool check.
func (s Spec) Validate(reg *tools.Registry) error {
	if s.Process != ProcessSequential {
		return fmt.Errorf("crew %s: unsupported process %q", s.Name, s.Process)
	}
	if len(s.Tasks) == 0 {
		return fmt.Errorf("crew %s: no tasks", s.Name)
	}

	for key, a := range s.Agents {
		if a.Role == "" {
			return fmt.Errorf("crew %s: agent %s has no role", s.Name, key)
		}
		if a.AllowDelegation {
			return fmt.Errorf("crew %s: agent %s: delegation is not supported", s.Name, key)
		}
		if reg == nil {
			continue
		}
		for _, name := range a.Tools {
			if _, err := reg.Get(name); err != nil {
				return fmt.Errorf("crew %s: agent %s: %w", s.Name, key, err)
			}
		}
	}

	seen := make(map[string]bool, len(s.Tasks))
	for i, t := range s.Tasks {
		if t.Name == "" {
			return fmt.Errorf("crew %s: task %d has no name", s.Name, i)
		}
		if seen[t.Name] {
			return fmt.Errorf("crew %s: duplicate task %q", s.Name, t.Name)
		}
		if _, ok := s.Agents[t.Agent]; !ok {
			return fmt.Errorf("crew %s: task %s: unknown agent %q", s.Name, t.Name, t.Agent)
		}
		for _, c := range t.Context {
			if !seen[c] {
				return fmt.Errorf("crew %s: task %s: context %q must name an earlier task", s.Name, t.Name, c)
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// render executes a task template against the kickoff inputs. Missing keys
// render as empty strings.
func render(name, text string, inputs map[string]string) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inputs); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}
