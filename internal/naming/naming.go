// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming builds artifact file names from user-supplied topics.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// TimestampLayout is the suffix format shared by every artifact of one run.
const TimestampLayout = "20060102_150405"

// Sanitize keeps only letters and numeric characters (including forms such
// as "²" and "½") and lowercases the result.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CurriculumPrefix returns the {topic}_{audience} prefix for curriculum files.
func CurriculumPrefix(topic, audience string) string {
	return Sanitize(topic) + "_" + Sanitize(audience)
}

// Timestamp formats t with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// CurriculumFile returns dir/{topic}_{audience}_{ts}.{ext}.
func CurriculumFile(dir, topic, audience, ts, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", CurriculumPrefix(topic, audience), ts, ext))
}

// ReportFile returns dir/report_{ts}.{ext}.
func ReportFile(dir, ts, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("report_%s.%s", ts, ext))
}

// FindExisting lists files in dir named prefix_*.ext, newest first. Timestamps
// sort lexically, so reverse name order is reverse chronological order. A
// missing directory yields no files.
func FindExisting(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix+"_") && strings.HasSuffix(name, "."+ext) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}
