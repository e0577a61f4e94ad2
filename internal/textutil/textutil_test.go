package textutil_test

import (
	"testing"

	"lectern/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Week 1: Entropy", "Week 1- Entropy"},
		{"a/b\\c", "a-b-c"},
		{"what?<>|", "what"},
		{"  spaced  ", "spaced"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.input); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/recordings/thermo_week-1.mp3", "Thermo Week 1"},
		{"intro.to.biology.m4a", "Intro To Biology"},
		{"", "Untitled Session"},
		{"...", "Untitled Session"},
	}
	for _, tc := range cases {
		if got := textutil.DisplayTitle(tc.input); got != tc.want {
			t.Fatalf("DisplayTitle(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
