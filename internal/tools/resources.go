// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// ResourceSearchArgs are the arguments accepted by the Resource Search Tool.
type ResourceSearchArgs struct {
	Topic          string `json:"topic" jsonschema:"description=Course topic to find resources for"`
	TargetAudience string `json:"target_audience,omitempty" jsonschema:"description=Intended learners,default=general"`
}

// Resources groups curated material by medium.
type Resources struct {
	Books    []string `json:"books"`
	Videos   []string `json:"videos"`
	Websites []string `json:"websites"`
}

// ResourceSearch returns a curated list of books, videos, and websites for a
// topic. The data is a fixed table; no network lookup is made.
type ResourceSearch struct{}

// ResourceSearchName is the function name the model calls.
const ResourceSearchName = "search_educational_resources"

func (ResourceSearch) Name() string { return ResourceSearchName }

func (ResourceSearch) Description() string {
	return "Resource Search Tool: returns a curated list of educational resources (books, videos, websites) for a given topic."
}

func (ResourceSearch) Parameters() *jsonschema.Schema {
	return SchemaFor[ResourceSearchArgs]()
}

// Call decodes args and returns the matching resources as indented JSON.
func (ResourceSearch) Call(_ context.Context, args json.RawMessage) (string, error) {
	var in ResourceSearchArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return "", fmt.Errorf("decoding %s arguments: %w", ResourceSearchName, err)
		}
	}
	if strings.TrimSpace(in.Topic) == "" {
		return "", fmt.Errorf("%s: topic is required", ResourceSearchName)
	}

	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(LookupResources(in.Topic)); err != nil {
		return "", fmt.Errorf("encoding resources: %w", err)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// LookupResources matches topic against the resource table by
// case-insensitive substring and falls back to generic entries.
func LookupResources(topic string) Resources {
	lower := strings.ToLower(topic)

	switch {
	case strings.Contains(lower, "digital logic"):
		return Resources{
			Books: []string{
				"Digital Design by M. Morris Mano (6th Edition)",
				"Fundamentals of Digital Logic with VHDL Design by Brown and Vranesic",
			},
			Videos: []string{
				"Ben Eater's 8-bit computer project on YouTube",
				"NPTEL lectures on Digital Circuits & Systems",
			},
			Websites: []string{
				"All About Circuits - Digital Logic Section",
				"TutorialsPoint - Digital Circuits Tutorials",
			},
		}
	case strings.Contains(lower, "machine learning"):
		return Resources{
			Books: []string{
				"Hands-On Machine Learning by Aurélien Géron",
				"Pattern Recognition and Machine Learning by Christopher Bishop",
			},
			Videos:   []string{"Andrew Ng's Machine Learning course on Coursera/YouTube"},
			Websites: []string{"Kaggle Learn Courses", "Towards Data Science"},
		}
	default:
		return Resources{
			Books:    []string{fmt.Sprintf("A Beginner's Guide to %s", topic)},
			Videos:   []string{fmt.Sprintf("Introduction to %s on Khan Academy", topic)},
			Websites: []string{fmt.Sprintf("Official documentation website for %s", topic)},
		}
	}
}
