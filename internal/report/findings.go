// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxFindings caps the number of key findings in a report.
const MaxFindings = 8

// minFindingLen is the exclusive lower bound, in characters, for a line to
// count as a finding.
const minFindingLen = 30

// markerRe matches one leading list marker: "1." or "2)" numbering, or a
// single bullet character, plus the whitespace after it.
var markerRe = regexp.MustCompile(`^(?:\d+[.)]|[.\-*•◦◾])\s*`)

// skipPrefixes are lowercase openings of model narration rather than
// findings.
var skipPrefixes = []string{"i ", "the task", "based on"}

// ExtractFindings pulls key findings out of the analysis task output. Lines
// that are too short, start with "Thought:", or read as narration are
// dropped; list markers are stripped. When nothing survives the fixed
// FallbackFindings are returned.
func ExtractFindings(topic, analysis string) []string {
	var findings []string
	for _, line := range strings.Split(analysis, "\n") {
		clean := strings.TrimSpace(line)
		if utf8.RuneCountInString(clean) <= minFindingLen || strings.HasPrefix(clean, "Thought:") {
			continue
		}
		clean = markerRe.ReplaceAllString(clean, "")
		if clean == "" || isNarration(clean) {
			continue
		}
		findings = append(findings, clean)
	}

	if len(findings) == 0 {
		findings = FallbackFindings(topic)
	}
	if len(findings) > MaxFindings {
		findings = findings[:MaxFindings]
	}
	return findings
}

func isNarration(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range skipPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// FallbackFindings returns six generic findings about topic.
func FallbackFindings(topic string) []string {
	return []string{
		fmt.Sprintf("%s represents a transformative technology with significant applications across industries.", topic),
		fmt.Sprintf("Current implementations of %s show measurable improvements in efficiency and effectiveness.", topic),
		fmt.Sprintf("Recent advances in %s have expanded potential use cases and accessibility.", topic),
		fmt.Sprintf("Organizations adopting %s report enhanced capabilities and competitive advantages.", topic),
		fmt.Sprintf("The underlying technology of %s continues evolving with ongoing research.", topic),
		fmt.Sprintf("Integration of %s presents both opportunities and implementation challenges.", topic),
	}
}

// Conclusion returns the trimmed report task output, or a fixed paragraph
// when the output is blank or is leftover model reasoning.
func Conclusion(topic, out string) string {
	if out = strings.TrimSpace(out); out != "" && !strings.HasPrefix(out, "Thought:") {
		return out
	}
	return fmt.Sprintf("%s represents a significant technological advancement with proven applications across multiple sectors. "+
		"Research indicates substantial benefits in efficiency and effectiveness, with continued development expanding potential impact. "+
		"The technology is well-positioned for broader adoption and integration in various industries.", topic)
}

// References returns search links for topic on Google Scholar, Nature, and
// PubMed. Spaces are substituted; no other escaping is applied.
func References(topic string) []string {
	plus := strings.ReplaceAll(topic, " ", "+")
	pct := strings.ReplaceAll(topic, " ", "%20")
	return []string{
		"https://scholar.google.com/scholar?q=" + plus,
		"https://www.nature.com/search?q=" + pct,
		"https://pubmed.ncbi.nlm.nih.gov/?term=" + plus,
	}
}
