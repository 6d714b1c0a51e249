// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/crewforge/pkg/types"
)

// DefaultLimit bounds List when Filter.Limit is zero.
const DefaultLimit = 20

// Filter narrows List results.
type Filter struct {
	// Kind keeps only runs of this kind when set.
	Kind types.RunKind

	// Topic is a case-insensitive substring match on the topic.
	Topic string

	// Limit caps the number of runs. Zero uses DefaultLimit; negative
	// means no limit.
	Limit int
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]types.Run, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, kind, topic, audience, created_at, json_path, doc_path, reused
		FROM runs WHERE 1=1`)

	if f.Kind != "" {
		qb.WriteString(` AND kind = ?`)
		args = append(args, string(f.Kind))
	}
	if f.Topic != "" {
		qb.WriteString(` AND lower(topic) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Topic)+"%")
	}
	qb.WriteString(` ORDER BY created_at DESC, id`)

	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := []types.Run{}
	for rows.Next() {
		var (
			r         types.Run
			kind      string
			audience  sql.NullString
			createdAt string
			docPath   sql.NullString
		)
		if err := rows.Scan(&r.ID, &kind, &r.Topic, &audience, &createdAt, &r.JSONPath, &docPath, &r.Reused); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Kind = types.RunKind(kind)
		r.Audience = audience.String
		r.DocPath = docPath.String
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
