package research

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerpt_ShortSentenceUntouched(t *testing.T) {
	s := "The market was valued at $1.2 billion."
	if got := excerpt(s, 280); got != s {
		t.Errorf("excerpt = %q, want unchanged", got)
	}
}

func TestExcerpt_CutsAtRuneBoundary(t *testing.T) {
	// Cut points that land mid-rune must back up instead of splitting the
	// character into invalid bytes.
	s := strings.Repeat("é", 100) // 2 bytes per rune
	for max := 10; max < 15; max++ {
		got := excerpt(s, max)
		if !utf8.ValidString(got) {
			t.Errorf("excerpt(max=%d) = %q is not valid UTF-8", max, got)
		}
		if len(got) > max+len("...") {
			t.Errorf("excerpt(max=%d) length = %d, want <= %d", max, len(got), max+3)
		}
	}
}

func TestExcerpt_PrefersWordBoundary(t *testing.T) {
	s := "market research reports cover enterprise software spending in detail"
	got := excerpt(s, 40)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("excerpt = %q, want ... suffix", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "..."), " ") {
		t.Errorf("excerpt = %q keeps a trailing space", got)
	}
	if trimmed := strings.TrimSuffix(got, "..."); strings.Contains(trimmed, "softw") && !strings.Contains(trimmed, "software") {
		t.Errorf("excerpt = %q splits a word", got)
	}
}
