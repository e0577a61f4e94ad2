package llm

import (
	"context"
	"fmt"
	"strings"

	"lectern/internal/ingest"
	"lectern/internal/library"
	"lectern/internal/services"
)

type transcriptPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TranscribeLecture sends the lecture audio (plus optional reference
// documents) to the transcription model and returns the structured
// transcript. The sessionTitle is advisory: the model may refine it, and it
// backstops an empty title in the response.
func (c *Client) TranscribeLecture(ctx context.Context, sessionTitle string, files []ingest.EncodedFile) (library.Transcript, error) {
	var empty library.Transcript
	if err := c.requireCredentials("transcribe"); err != nil {
		return empty, err
	}
	audio, references := ingest.Partition(files)
	if len(audio) == 0 {
		return empty, services.Wrap(services.ErrValidation, "transcriber", "transcribe", "at least one audio file required", nil)
	}

	payload := chatCompletionRequest{
		Model: c.cfg.TranscriptionModel,
		Messages: []chatMessage{
			{Role: "system", Content: transcriptionSystemPrompt},
			{Role: "user", Content: buildTranscriptionParts(sessionTitle, audio, references)},
		},
		Temperature:    0.2,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}

	content, err := c.completionContentWithRetry(ctx, payload, "transcribe lecture")
	if err != nil {
		return empty, services.Wrap(services.ErrGateway, "transcriber", "transcribe", "backend call failed", err)
	}

	var decoded transcriptPayload
	if err := DecodeModelJSON(content, &decoded); err != nil {
		return empty, services.Wrap(services.ErrGateway, "transcriber", "transcribe", "malformed transcript payload", err)
	}
	decoded.Title = strings.TrimSpace(decoded.Title)
	decoded.Content = strings.TrimSpace(decoded.Content)
	if decoded.Content == "" {
		return empty, services.Wrap(services.ErrGateway, "transcriber", "transcribe", "transcript content missing from payload", nil)
	}
	if decoded.Title == "" {
		decoded.Title = strings.TrimSpace(sessionTitle)
	}
	return library.Transcript{Title: decoded.Title, Content: decoded.Content}, nil
}

// GenerateStudyNotes asks the notes model for Markdown study notes over a
// completed transcript.
func (c *Client) GenerateStudyNotes(ctx context.Context, title, transcript string) (string, error) {
	if err := c.requireCredentials("notes"); err != nil {
		return "", err
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", services.Wrap(services.ErrValidation, "notes", "generate", "transcript required", nil)
	}

	var request strings.Builder
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		fmt.Fprintf(&request, "Lecture title: %s\n\n", trimmed)
	}
	request.WriteString("Transcript:\n\n")
	request.WriteString(transcript)

	payload := chatCompletionRequest{
		Model: c.cfg.NotesModel,
		Messages: []chatMessage{
			{Role: "system", Content: notesSystemPrompt},
			{Role: "user", Content: request.String()},
		},
		Temperature: 0.4,
	}

	content, err := c.completionContentWithRetry(ctx, payload, "generate study notes")
	if err != nil {
		return "", services.Wrap(services.ErrGateway, "notes", "generate", "backend call failed", err)
	}
	notes := strings.TrimSpace(stripCodeFenceBlock(content))
	if notes == "" {
		notes = strings.TrimSpace(content)
	}
	return notes, nil
}

// HealthCheck issues a minimal completion against the notes model to verify
// credentials and connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.requireCredentials("health check"); err != nil {
		return err
	}
	payload := chatCompletionRequest{
		Model: c.cfg.NotesModel,
		Messages: []chatMessage{
			{Role: "user", Content: "Reply with the single word: ok"},
		},
		Temperature: 0,
	}
	if _, err := c.completionContentWithRetry(ctx, payload, "health check"); err != nil {
		return services.Wrap(services.ErrGateway, "llm", "health", "backend unreachable", err)
	}
	return nil
}

func (c *Client) requireCredentials(operation string) error {
	if c == nil || strings.TrimSpace(c.cfg.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "llm", operation, "api key not configured", nil)
	}
	return nil
}
