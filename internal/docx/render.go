// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	gdocx "github.com/gomutex/godocx/docx"

	"github.com/pdiddy/crewforge/pkg/types"
)

// Paragraph style IDs of the default Word template. pStyle takes the ID,
// not the display name ("Intense Quote", "List Bullet").
const (
	StyleIntenseQuote = "IntenseQuote"
	StyleListBullet   = "ListBullet"
)

const (
	untitled     = "Untitled Curriculum"
	sectionLevel = 2
)

// Sink receives document elements in order.
type Sink interface {
	Heading(text string, level int) error
	Paragraph(runs []Run, style string) error
}

// section pairs a heading with its markdown body.
type section struct {
	title string
	body  string
}

func sections(c *types.Curriculum) []section {
	return []section{
		{"Module Outline", c.ModuleOutline},
		{"Learning Material", c.LearningMaterial},
		{"Assessments", c.Assessments},
		{"Resources", c.Resources},
	}
}

// Render emits c to s: the topic as a level 1 heading, the audience as a
// quote, then one level 2 section per non-empty body.
func Render(s Sink, c *types.Curriculum) error {
	title := c.Topic
	if strings.TrimSpace(title) == "" {
		title = untitled
	}
	if err := s.Heading(title, 1); err != nil {
		return err
	}

	audience := c.TargetAudience
	if strings.TrimSpace(audience) == "" {
		audience = "N/A"
	}
	if err := s.Paragraph([]Run{{Text: "Target Audience: " + audience}}, StyleIntenseQuote); err != nil {
		return err
	}

	for _, sec := range sections(c) {
		if strings.TrimSpace(sec.body) == "" {
			continue
		}
		if err := s.Heading(sec.title, sectionLevel); err != nil {
			return err
		}
		for _, b := range Blocks(sec.body, sectionLevel) {
			if err := emit(s, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func emit(s Sink, b Block) error {
	switch b.Kind {
	case BlockHeading:
		return s.Heading(b.Text, b.Level)
	case BlockBullet:
		return s.Paragraph([]Run{{Text: b.Text}}, StyleListBullet)
	case BlockParagraph:
		return s.Paragraph(b.Runs, "")
	}
	return nil
}

// wordSink writes to a godocx document.
type wordSink struct {
	doc *gdocx.RootDoc
}

func (w wordSink) Heading(text string, level int) error {
	if _, err := w.doc.AddHeading(text, uint(level)); err != nil {
		return fmt.Errorf("adding heading %q: %w", text, err)
	}
	return nil
}

func (w wordSink) Paragraph(runs []Run, style string) error {
	var p *gdocx.Paragraph
	if len(runs) == 1 && !runs[0].Bold {
		p = w.doc.AddParagraph(runs[0].Text)
	} else {
		p = w.doc.AddEmptyParagraph()
		for _, r := range runs {
			run := p.AddText(r.Text)
			if r.Bold {
				run.Bold(true)
			}
		}
	}
	if style != "" {
		p.Style(style)
	}
	return nil
}

// Write renders c into a new Word document at path.
func Write(path string, c *types.Curriculum) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	if err := Render(wordSink{doc: doc}, c); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
