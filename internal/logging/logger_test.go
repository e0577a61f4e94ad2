package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestPrettyHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger = logger.With(String(FieldComponent, "daemon"))
	logger.Info("session created", String("session_id", "abc"), Int("files", 2))

	line := buf.String()
	for _, fragment := range []string{"INFO", "[daemon]", "session created", "session_id=abc", "files=2"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in output, got %q", fragment, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component must render as prefix, got %q", line)
	}
}

func TestPrettyHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger.Info("msg", String("title", "Week 1 Intro"))
	if !strings.Contains(buf.String(), `title="Week 1 Intro"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}
	logger.Warn("emitted")
	if !strings.Contains(buf.String(), "emitted") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar, false))

	logger.Error("backend failed", String("op", "transcribe"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if decoded["level"] != "error" {
		t.Fatalf("unexpected level field: %v", decoded["level"])
	}
	if decoded["msg"] != "backend failed" {
		t.Fatalf("unexpected msg field: %v", decoded["msg"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("nothing happens")

	component := NewComponentLogger(nil, "ipc")
	component.Error("still nothing", Error(nil))
}
