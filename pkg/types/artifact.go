// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared records for the crewforge pipelines: the
// curriculum and report artifacts, run ledger entries, and configuration.
package types

import "time"

// Curriculum is the result of one curriculum crew run. Field order matches
// the JSON artifact written to disk.
type Curriculum struct {
	Topic            string `json:"topic" yaml:"topic"`
	TargetAudience   string `json:"target_audience" yaml:"target_audience"`
	ModuleOutline    string `json:"module_outline" yaml:"module_outline"`
	LearningMaterial string `json:"learning_material" yaml:"learning_material"`
	Assessments      string `json:"assessments" yaml:"assessments"`
	Resources        string `json:"resources" yaml:"resources"`
}

// Report is the result of one research crew run.
type Report struct {
	Topic       string   `json:"topic" yaml:"topic"`
	KeyFindings []string `json:"key_findings" yaml:"key_findings"`
	Conclusion  string   `json:"conclusion" yaml:"conclusion"`
	References  []string `json:"references" yaml:"references"`
}

// RunKind distinguishes ledger entries.
type RunKind string

const (
	KindCurriculum RunKind = "curriculum"
	KindReport     RunKind = "report"
)

// Run records one completed invocation and the files it produced.
type Run struct {
	// ID is a random UUID assigned when the crew starts.
	ID string `json:"id" yaml:"id"`

	Kind     RunKind `json:"kind" yaml:"kind"`
	Topic    string  `json:"topic" yaml:"topic"`
	Audience string  `json:"audience,omitempty" yaml:"audience,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// JSONPath is the JSON artifact written by the run.
	JSONPath string `json:"json_path" yaml:"json_path"`

	// DocPath is the DOCX (curriculum) or Markdown (report) artifact.
	DocPath string `json:"doc_path,omitempty" yaml:"doc_path,omitempty"`

	// Reused is true when a curriculum was loaded from a previous run.
	Reused bool `json:"reused,omitempty" yaml:"reused,omitempty"`
}
