// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crewforge/internal/crew"
	"github.com/pdiddy/crewforge/internal/prompt"
	"github.com/pdiddy/crewforge/pkg/types"
)

func init() {
	color.NoColor = true
}

func reuseCmd(value string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("reuse", "", "")
	if value != "" {
		cmd.Flags().Set("reuse", value)
	}
	return cmd
}

func TestChooserFromFlags_Fixed(t *testing.T) {
	tests := []struct {
		value string
		want  prompt.Choice
	}{
		{"r", prompt.Reuse},
		{"REUSE", prompt.Reuse},
		{"u", prompt.Update},
		{"update", prompt.Update},
		{"c", prompt.CreateNew},
		{"new", prompt.CreateNew},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c, err := chooserFromFlags(reuseCmd(tt.value), &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, prompt.Fixed(tt.want), c)
		})
	}
}

func TestChooserFromFlags_Invalid(t *testing.T) {
	_, err := chooserFromFlags(reuseCmd("maybe"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --reuse value")
}

func TestTaskPreview(t *testing.T) {
	var buf bytes.Buffer
	taskPreview(&buf)(crew.TaskOutput{Raw: "  " + strings.Repeat("x", 150)})

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "[TASK COMPLETED] Preview: "))
	assert.Contains(t, got, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, got, strings.Repeat("x", 101))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &types.Report{
		Topic:       "AI",
		KeyFindings: []string{"first finding", "second finding"},
		Conclusion:  "It matters.",
		References:  []string{"ref a"},
	})

	got := buf.String()
	assert.Contains(t, got, "RESEARCH COMPLETED SUCCESSFULLY!")
	assert.Contains(t, got, "  1. first finding\n  2. second finding")
	assert.Contains(t, got, "CONCLUSION:\n  It matters.")
	assert.Contains(t, got, "REFERENCES (1 sources):\n  1. ref a")
}

func TestPrintRuns(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		printRuns(&buf, nil)
		assert.Equal(t, "No runs recorded.\n", buf.String())
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		printRuns(&buf, []types.Run{
			{
				Kind:      types.KindCurriculum,
				Topic:     "Digital Logic",
				Audience:  "students",
				CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				JSONPath:  "output/digital_logic_students_1.json",
				DocPath:   "output/digital_logic_students_1.docx",
				Reused:    true,
			},
			{
				Kind:     types.KindReport,
				Topic:    "AI",
				JSONPath: "output/report_1.json",
			},
		})

		got := buf.String()
		assert.Contains(t, got, "curriculum*")
		assert.Contains(t, got, "digital_logic_students_1.json, digital_logic_students_1.docx")
		assert.Contains(t, got, "report_1.json")
		assert.Contains(t, got, "2 runs")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
