package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/config"
)

func TestLoadDefaultsUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("LECTERN_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "lectern")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.ExportDir != filepath.Join(tempHome, "lecture-notes") {
		t.Fatalf("unexpected export dir: %q", cfg.Paths.ExportDir)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != config.Default().LLM.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.TimeoutSeconds != config.Default().LLM.TimeoutSeconds {
		t.Fatalf("unexpected timeout: %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.Session.DefaultCourse != "General" {
		t.Fatalf("unexpected default course: %q", cfg.Session.DefaultCourse)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.SocketPath() != filepath.Join(wantData, "lecternd.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath())
	}
	if cfg.CatalogPath() != filepath.Join(wantData, "courses.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath())
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	t.Setenv("LECTERN_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[llm]
api_key = "file-key"
transcription_model = "acme/audio"
notes_model = "acme/notes"
timeout_seconds = 30

[session]
default_course = "Physics"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit file resolution, got %q exists=%v", resolved, exists)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.TranscriptionModel != "acme/audio" || cfg.LLM.NotesModel != "acme/notes" {
		t.Fatalf("unexpected models: %+v", cfg.LLM)
	}
	if cfg.LLM.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.Session.DefaultCourse != "Physics" {
		t.Fatalf("unexpected default course: %q", cfg.Session.DefaultCourse)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %+v", cfg.Logging)
	}
}

func TestGetLLMTrimsFields(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "  padded-key  "
	cfg.LLM.BaseURL = " https://example.test/v1/chat "
	cfg.LLM.NotesModel = " acme/notes "

	backend := cfg.GetLLM()
	if backend.APIKey != "padded-key" {
		t.Fatalf("expected trimmed api key, got %q", backend.APIKey)
	}
	if backend.BaseURL != "https://example.test/v1/chat" {
		t.Fatalf("expected trimmed base url, got %q", backend.BaseURL)
	}
	if backend.NotesModel != "acme/notes" {
		t.Fatalf("expected trimmed notes model, got %q", backend.NotesModel)
	}
	if backend.TimeoutSeconds != cfg.LLM.TimeoutSeconds {
		t.Fatalf("unexpected timeout: %d", backend.TimeoutSeconds)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("LECTERN_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error without api key")
	}
	if !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected api key hint, got %v", err)
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[llm]
api_key = "k"
base_url = "not a url"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(payload), "[llm]") {
		t.Fatal("expected llm section in sample config")
	}
}
