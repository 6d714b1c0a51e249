// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools defines functions an agent may call during a task and the
// mock Resource Search Tool used by the curriculum crew.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// Tool is a function exposed to the model. Parameters describes the JSON
// object the model must pass to Call.
type Tool interface {
	Name() string
	Description() string
	Parameters() *jsonschema.Schema
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// SchemaFor reflects the argument struct T into an inline object schema.
// The $schema and $id keywords are cleared; function-calling APIs reject them.
func SchemaFor[T any]() *jsonschema.Schema {
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	schema.ID = ""
	return schema
}

// Registry resolves tool names used in crew definitions.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools. Later tools with a
// duplicate name replace earlier ones.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		r.tools[t.Name()] = t
	}
	return r
}

// Default returns the registry of built-in tools.
func Default() *Registry {
	return NewRegistry(ResourceSearch{})
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return t, nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
