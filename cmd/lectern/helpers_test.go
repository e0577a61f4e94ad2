package main

import (
	"strings"
	"testing"

	"lectern/internal/ipc"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncate result %q", got)
	}
	got := truncate(strings.Repeat("a", 50), 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncate result %q", got)
	}
}

func TestNotesVersionLabel(t *testing.T) {
	if got := notesVersionLabel(ipc.Record{}); got != "-" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := notesVersionLabel(ipc.Record{LatestVersion: 1}); got != "v1" {
		t.Fatalf("expected v1, got %q", got)
	}
	got := notesVersionLabel(ipc.Record{LatestVersion: 3, PreviousVersion: 2})
	if got != "v3 (prev v2)" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestSessionMarker(t *testing.T) {
	if got := sessionMarker(ipc.Record{Active: true, Selected: true}); got != "*+" {
		t.Fatalf("unexpected marker %q", got)
	}
	if got := sessionMarker(ipc.Record{}); got != "" {
		t.Fatalf("unexpected marker %q", got)
	}
}

func TestRenderTableIncludesHeaders(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Title"},
		[][]string{{"abc", "Week 1"}},
		[]columnAlignment{alignLeft, alignLeft},
	)
	if !strings.Contains(out, "ID") || !strings.Contains(out, "Week 1") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}
