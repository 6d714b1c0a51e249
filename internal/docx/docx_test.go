// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crewforge/pkg/types"
)

// recordingSink stores emitted elements as readable strings.
type recordingSink struct {
	lines []string
}

func (r *recordingSink) Heading(text string, level int) error {
	r.lines = append(r.lines, fmt.Sprintf("H%d %s", level, text))
	return nil
}

func (r *recordingSink) Paragraph(runs []Run, style string) error {
	var b strings.Builder
	for _, run := range runs {
		if run.Bold {
			b.WriteString("[" + run.Text + "]")
		} else {
			b.WriteString(run.Text)
		}
	}
	if style != "" {
		r.lines = append(r.lines, fmt.Sprintf("P(%s) %s", style, b.String()))
	} else {
		r.lines = append(r.lines, "P "+b.String())
	}
	return nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Block
	}{
		{"empty", "", Block{Kind: BlockEmpty}},
		{"whitespace", "   \t", Block{Kind: BlockEmpty}},
		{"h3", "### Week 1", Block{Kind: BlockHeading, Level: 4, Text: "Week 1"}},
		{"h2 indented", "  ## Module A  ", Block{Kind: BlockHeading, Level: 3, Text: "Module A"}},
		{"h2 keeps inner marker", "## Part ## Two", Block{Kind: BlockHeading, Level: 3, Text: "Part ## Two"}},
		{"h1 is plain text", "# Title", Block{Kind: BlockParagraph, Runs: []Run{{Text: "# Title"}}}},
		{"star bullet", "*   Gates", Block{Kind: BlockBullet, Text: "Gates"}},
		{"dash bullet", "- Flip-flops", Block{Kind: BlockBullet, Text: "Flip-flops"}},
		{"bold bullet stays bullet", "- **Quiz**", Block{Kind: BlockBullet, Text: "**Quiz**"}},
		{"bold runs", "**Week 1:** Intro", Block{Kind: BlockParagraph, Runs: []Run{
			{Text: "Week 1:", Bold: true}, {Text: " Intro"},
		}}},
		{"bold middle", "Grade **30%** total", Block{Kind: BlockParagraph, Runs: []Run{
			{Text: "Grade "}, {Text: "30%", Bold: true}, {Text: " total"},
		}}},
		{"plain", "Learning outcomes follow.", Block{Kind: BlockParagraph, Runs: []Run{{Text: "Learning outcomes follow."}}}},
		{"no space after marker", "*emphasis*", Block{Kind: BlockParagraph, Runs: []Run{{Text: "*emphasis*"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line, 2))
		})
	}
}

func TestBlocks_SkipsEmpty(t *testing.T) {
	got := Blocks("\n\n## A\n\n- one\n\ntext\n\n", 2)
	require.Len(t, got, 3)
	assert.Equal(t, BlockHeading, got[0].Kind)
	assert.Equal(t, BlockBullet, got[1].Kind)
	assert.Equal(t, BlockParagraph, got[2].Kind)
}

func TestRender(t *testing.T) {
	c := &types.Curriculum{
		Topic:          "Digital Logic",
		TargetAudience: "undergrads",
		ModuleOutline:  "## Module 1\n### Week 1\n* Gates\n**Goal:** learn",
		Assessments:    "- Quiz",
		Resources:      "   ",
	}
	s := &recordingSink{}
	require.NoError(t, Render(s, c))

	assert.Equal(t, []string{
		"H1 Digital Logic",
		"P(IntenseQuote) Target Audience: undergrads",
		"H2 Module Outline",
		"H3 Module 1",
		"H4 Week 1",
		"P(ListBullet) Gates",
		"P [Goal:] learn",
		"H2 Assessments",
		"P(ListBullet) Quiz",
	}, s.lines)
}

func TestRender_Defaults(t *testing.T) {
	s := &recordingSink{}
	require.NoError(t, Render(s, &types.Curriculum{}))
	assert.Equal(t, []string{
		"H1 Untitled Curriculum",
		"P(IntenseQuote) Target Audience: N/A",
	}, s.lines)
}

type failingSink struct{ recordingSink }

func (f *failingSink) Heading(string, int) error { return fmt.Errorf("disk full") }

func TestRender_SinkError(t *testing.T) {
	err := Render(&failingSink{}, &types.Curriculum{Topic: "x"})
	assert.EqualError(t, err, "disk full")
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "c.docx")
	c := &types.Curriculum{
		Topic:            "Go",
		TargetAudience:   "devs",
		ModuleOutline:    "## Module 1\n- Basics\n* More\n**Bold** text",
		LearningMaterial: "Notes",
	}
	require.NoError(t, Write(path, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "PK", string(data[:2]), "docx is a zip archive")
}

// documentXML returns word/document.xml from the archive at path.
func documentXML(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}
	t.Fatalf("word/document.xml not found in %s", path)
	return ""
}

var boldRe = regexp.MustCompile(`<w:b[ />]`)

func TestWrite_Styles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.docx")
	c := &types.Curriculum{
		Topic:          "Go",
		TargetAudience: "devs",
		ModuleOutline:  "## Module 1\n- Basics\n* More\nPlain line",
		Assessments:    "**Bold** text",
	}
	require.NoError(t, Write(path, c))

	doc := documentXML(t, path)

	tests := []struct {
		name  string
		style string
		count int
	}{
		{"title", "Heading1", 1},
		{"sections", "Heading2", 2},
		{"subheading", "Heading3", 1},
		{"audience quote", StyleIntenseQuote, 1},
		{"bullets", StyleListBullet, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.count, strings.Count(doc, `w:val="`+tt.style+`"`))
		})
	}

	assert.NotContains(t, doc, "Intense Quote")
	assert.NotContains(t, doc, "List Bullet")
	assert.Contains(t, doc, "Basics")
	assert.Contains(t, doc, "Target Audience: devs")
	assert.NotEmpty(t, boldRe.FindAllString(doc, -1), "** segment is bold")
	assert.Contains(t, doc, "Bold</w:t>")
}
