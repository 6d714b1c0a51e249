// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crewforge/internal/export"
)

// ExportYAML writes the runs matching f to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, f Filter) error {
	runs, err := s.List(ctx, f)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the runs matching f to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, f Filter) error {
	runs, err := s.List(ctx, f)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := export.Marshal(runs, 2)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
