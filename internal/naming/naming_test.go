// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naming

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Digital Logic", "digitallogic"},
		{"Machine Learning 101!", "machinelearning101"},
		{"  C++ / Rust  ", "crust"},
		{"Beginners (ages 12-14)", "beginnersages1214"},
		{"", ""},
		{"---", ""},
		{"Café Über", "caféüber"},
		{"Area in m²", "areainm²"},
		{"½ Day Workshop", "½dayworkshop"},
		{"Ⅻ Tables", "ⅻtables"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "in")
		out := Sanitize(in)

		for _, r := range out {
			if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
				t.Fatalf("Sanitize(%q) = %q contains %q", in, out, r)
			}
		}
		if out != strings.ToLower(out) {
			t.Fatalf("Sanitize(%q) = %q is not lowercase", in, out)
		}
		if Sanitize(out) != out {
			t.Fatalf("Sanitize is not idempotent on %q", in)
		}
	})
}

func TestFileNames(t *testing.T) {
	ts := Timestamp(time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC))
	assert.Equal(t, "20260309_140507", ts)

	assert.Equal(t,
		filepath.Join("output", "digitallogic_undergraduates_20260309_140507.json"),
		CurriculumFile("output", "Digital Logic", "Undergraduates", ts, "json"))
	assert.Equal(t,
		filepath.Join("output", "report_20260309_140507.md"),
		ReportFile("output", ts, "md"))
}

func TestFindExisting(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"ml_beginners_20260101_090000.json",
		"ml_beginners_20260301_090000.json",
		"ml_beginners_20260301_090000.docx",
		"ml_beginnersadvanced_20260401_090000.json",
		"other_topic_20260501_090000.json",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ml_beginners_dir.json"), 0o755))

	got, err := FindExisting(dir, "ml_beginners", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "ml_beginners_20260301_090000.json"),
		filepath.Join(dir, "ml_beginners_20260101_090000.json"),
	}, got)
}

func TestFindExistingMissingDir(t *testing.T) {
	got, err := FindExisting(filepath.Join(t.TempDir(), "nope"), "x_y", "json")
	require.NoError(t, err)
	assert.Empty(t, got)
}
