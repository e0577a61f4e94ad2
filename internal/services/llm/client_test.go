package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lectern/internal/ingest"
	"lectern/internal/services"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:             "test-key",
		BaseURL:            baseURL,
		TranscriptionModel: "test/audio-model",
		NotesModel:         "test/notes-model",
	}
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestTranscribeLectureDecodesPayload(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		captured, _ = io.ReadAll(r.Body)
		io.WriteString(w, completionBody(`{"title":"Thermodynamics I","content":"Today we cover entropy."}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	files := []ingest.EncodedFile{
		{Name: "lecture.mp3", MediaType: "audio/mpeg", Data: "QUJD"},
		{Name: "slides.pdf", MediaType: "application/pdf", Data: "UERG"},
	}
	transcript, err := client.TranscribeLecture(context.Background(), "thermo", files)
	if err != nil {
		t.Fatalf("TranscribeLecture: %v", err)
	}
	if transcript.Title != "Thermodynamics I" {
		t.Fatalf("unexpected title %q", transcript.Title)
	}
	if transcript.Content != "Today we cover entropy." {
		t.Fatalf("unexpected content %q", transcript.Content)
	}

	var request chatCompletionRequest
	if err := json.Unmarshal(captured, &request); err != nil {
		t.Fatalf("decode captured request: %v", err)
	}
	if request.Model != "test/audio-model" {
		t.Fatalf("unexpected model %q", request.Model)
	}
	if request.ResponseFormat["type"] != jsonResponseType {
		t.Fatalf("expected json response format, got %v", request.ResponseFormat)
	}
	body := string(captured)
	if !strings.Contains(body, `"input_audio"`) || !strings.Contains(body, `"format":"mp3"`) {
		t.Fatalf("expected audio part in request, got %s", body)
	}
	if !strings.Contains(body, "data:application/pdf;base64,UERG") {
		t.Fatalf("expected reference document part in request, got %s", body)
	}
}

func TestTranscribeLectureToleratesCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, completionBody("```json\n{\"title\":\"Week 2\",\"content\":\"Fenced transcript.\"}\n```"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	files := []ingest.EncodedFile{{Name: "a.wav", MediaType: "audio/wav", Data: "QQ=="}}
	transcript, err := client.TranscribeLecture(context.Background(), "", files)
	if err != nil {
		t.Fatalf("TranscribeLecture: %v", err)
	}
	if transcript.Content != "Fenced transcript." {
		t.Fatalf("unexpected content %q", transcript.Content)
	}
}

func TestTranscribeLectureFallsBackToSessionTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, completionBody(`{"title":"","content":"Transcript body."}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	files := []ingest.EncodedFile{{Name: "a.mp3", MediaType: "audio/mpeg", Data: "QQ=="}}
	transcript, err := client.TranscribeLecture(context.Background(), "Linear Algebra 3", files)
	if err != nil {
		t.Fatalf("TranscribeLecture: %v", err)
	}
	if transcript.Title != "Linear Algebra 3" {
		t.Fatalf("expected session title fallback, got %q", transcript.Title)
	}
}

func TestTranscribeLectureRequiresAudio(t *testing.T) {
	client := NewClient(testConfig("http://unused.invalid"))
	files := []ingest.EncodedFile{{Name: "slides.pdf", MediaType: "application/pdf", Data: "UERG"}}
	if _, err := client.TranscribeLecture(context.Background(), "", files); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGatewayRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused.invalid"})
	if _, err := client.GenerateStudyNotes(context.Background(), "t", "transcript"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGenerateStudyNotesStripsFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, completionBody("```\n# Notes\n\n- entropy\n```"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	notes, err := client.GenerateStudyNotes(context.Background(), "Thermo", "long transcript")
	if err != nil {
		t.Fatalf("GenerateStudyNotes: %v", err)
	}
	if !strings.HasPrefix(notes, "# Notes") {
		t.Fatalf("unexpected notes %q", notes)
	}
}

func TestCompletionRetriesOnTooManyRequests(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, completionBody("# Recovered notes"))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(testConfig(server.URL),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	notes, err := client.GenerateStudyNotes(context.Background(), "", "transcript")
	if err != nil {
		t.Fatalf("GenerateStudyNotes: %v", err)
	}
	if notes != "# Recovered notes" {
		t.Fatalf("unexpected notes %q", notes)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != 7*time.Second {
		t.Fatalf("expected Retry-After honored, got %v", slept)
	}
}

func TestCompletionDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithSleeper(func(time.Duration) {}))
	_, err := client.GenerateStudyNotes(context.Background(), "", "transcript")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !errors.Is(err, services.ErrGateway) {
		t.Fatalf("expected gateway marker, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestCompletionRetriesEmptyContent(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			io.WriteString(w, completionBody(""))
			return
		}
		io.WriteString(w, completionBody("eventually useful"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithSleeper(func(time.Duration) {}))
	notes, err := client.GenerateStudyNotes(context.Background(), "", "transcript")
	if err != nil {
		t.Fatalf("GenerateStudyNotes: %v", err)
	}
	if notes != "eventually useful" {
		t.Fatalf("unexpected notes %q", notes)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestCompletionFailsAfterMaxAttempts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL),
		WithRetryMaxAttempts(2),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.GenerateStudyNotes(context.Background(), "", "transcript")
	if err == nil {
		t.Fatal("expected failure after retries exhausted")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDecodeModelJSONVariants(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"plain", `{"title":"a","content":"b"}`},
		{"fenced", "```json\n{\"title\":\"a\",\"content\":\"b\"}\n```"},
		{"prose-wrapped", "Here is the result:\n{\"title\":\"a\",\"content\":\"b\"}\nDone."},
	}
	for _, tc := range cases {
		var decoded transcriptPayload
		if err := DecodeModelJSON(tc.payload, &decoded); err != nil {
			t.Fatalf("%s: DecodeModelJSON: %v", tc.name, err)
		}
		if decoded.Title != "a" || decoded.Content != "b" {
			t.Fatalf("%s: unexpected decode %+v", tc.name, decoded)
		}
	}

	var decoded transcriptPayload
	if err := DecodeModelJSON("not json at all", &decoded); err == nil {
		t.Fatal("expected decode failure for junk payload")
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	client := NewClient(testConfig("http://unused.invalid"),
		WithRetryBackoff(time.Second, 4*time.Second),
	)
	if got := client.backoffDelay(1); got != time.Second {
		t.Fatalf("attempt 1: got %v", got)
	}
	if got := client.backoffDelay(2); got != 2*time.Second {
		t.Fatalf("attempt 2: got %v", got)
	}
	if got := client.backoffDelay(5); got != 4*time.Second {
		t.Fatalf("attempt 5: expected cap, got %v", got)
	}
}

func TestHealthCheckProbesNotesModel(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		io.WriteString(w, completionBody("ok"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}

	var request chatCompletionRequest
	if err := json.Unmarshal(captured, &request); err != nil {
		t.Fatalf("decode captured request: %v", err)
	}
	if request.Model != "test/notes-model" {
		t.Fatalf("expected notes model, got %q", request.Model)
	}
}

func TestHealthCheckReportsBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	err := client.HealthCheck(context.Background())
	if !errors.Is(err, services.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	unconfigured := NewClient(Config{BaseURL: server.URL, NotesModel: "m"})
	if err := unconfigured.HealthCheck(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without api key, got %v", err)
	}
}
