// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx renders a curriculum as a Word document. Section bodies are
// the markdown produced by the crew; each line is mapped to a heading,
// bullet, or paragraph by Classify.
package docx

import "strings"

// BlockKind is the document element a line becomes.
type BlockKind int

const (
	BlockEmpty BlockKind = iota
	BlockHeading
	BlockBullet
	BlockParagraph
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockBullet:
		return "bullet"
	case BlockParagraph:
		return "paragraph"
	default:
		return "empty"
	}
}

// Run is a span of paragraph text.
type Run struct {
	Text string
	Bold bool
}

// Block is one classified line.
type Block struct {
	Kind BlockKind

	// Level is set for headings.
	Level int

	// Text is set for headings and bullets.
	Text string

	// Runs is set for paragraphs.
	Runs []Run
}

// Classify maps one markdown line to a block. base is the heading level of
// the enclosing section: "### " becomes base+2 and "## " becomes base+1.
func Classify(line string, base int) Block {
	s := strings.TrimSpace(line)
	switch {
	case s == "":
		return Block{Kind: BlockEmpty}
	case strings.HasPrefix(s, "### "):
		return Block{Kind: BlockHeading, Level: base + 2, Text: strings.TrimPrefix(s, "### ")}
	case strings.HasPrefix(s, "## "):
		return Block{Kind: BlockHeading, Level: base + 1, Text: strings.TrimPrefix(s, "## ")}
	case strings.HasPrefix(s, "* "):
		return Block{Kind: BlockBullet, Text: strings.TrimSpace(strings.TrimPrefix(s, "* "))}
	case strings.HasPrefix(s, "- "):
		return Block{Kind: BlockBullet, Text: strings.TrimSpace(strings.TrimPrefix(s, "- "))}
	case strings.Contains(s, "**"):
		return Block{Kind: BlockParagraph, Runs: boldRuns(s)}
	default:
		return Block{Kind: BlockParagraph, Runs: []Run{{Text: s}}}
	}
}

// boldRuns splits s on "**"; odd segments are bold. Empty segments are
// dropped.
func boldRuns(s string) []Run {
	var runs []Run
	for i, part := range strings.Split(s, "**") {
		if part == "" {
			continue
		}
		runs = append(runs, Run{Text: part, Bold: i%2 == 1})
	}
	return runs
}

// Blocks classifies every line of content, skipping empty lines.
func Blocks(content string, base int) []Block {
	var out []Block
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		b := Classify(line, base)
		if b.Kind == BlockEmpty {
			continue
		}
		out = append(out, b)
	}
	return out
}
