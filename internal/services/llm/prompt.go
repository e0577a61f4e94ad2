package llm

import (
	"fmt"
	"path/filepath"
	"strings"

	"lectern/internal/ingest"
)

const transcriptionSystemPrompt = `You are an academic transcription assistant. You receive one or more audio
recordings of a lecture, possibly with reference documents (slides, syllabus,
prior notes) that supply correct spelling for names and technical terms.

Transcribe the audio faithfully into clean readable prose. Merge multiple
recordings in the order given. Use the reference material only to fix
terminology, never to invent content.

Respond with a single JSON object:
{"title": "<concise descriptive lecture title>", "content": "<full transcript text>"}`

const notesSystemPrompt = `You are an academic study assistant. You receive the transcript of a lecture
and produce structured study notes in Markdown.

Cover every topic the transcript raises. Use headings, bullet lists, and bold
key terms. Include definitions, formulas, and examples mentioned in the
lecture. Do not invent material that is not in the transcript.

Respond with the Markdown notes only, no preamble.`

func buildTranscriptionParts(title string, audio, references []ingest.EncodedFile) []contentPart {
	parts := make([]contentPart, 0, len(audio)+len(references)+1)

	var instruction strings.Builder
	instruction.WriteString("Transcribe the attached lecture audio.")
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		fmt.Fprintf(&instruction, " The session is titled %q; keep the returned title close to it.", trimmed)
	}
	if len(audio) > 1 {
		fmt.Fprintf(&instruction, " There are %d recordings; transcribe them in order as one continuous session.", len(audio))
	}
	if len(references) > 0 {
		instruction.WriteString(" Reference documents follow the audio.")
	}
	parts = append(parts, contentPart{Type: "text", Text: instruction.String()})

	for _, file := range audio {
		parts = append(parts, contentPart{
			Type: "input_audio",
			InputAudio: &audioInput{
				Data:   file.Data,
				Format: audioFormat(file),
			},
		})
	}
	for _, file := range references {
		parts = append(parts, contentPart{
			Type: "file",
			File: &fileInput{
				Filename: file.Name,
				FileData: fmt.Sprintf("data:%s;base64,%s", file.MediaType, file.Data),
			},
		})
	}
	return parts
}

// audioFormat maps a media type to the short format token the audio API
// expects ("mp3", "wav", ...).
func audioFormat(file ingest.EncodedFile) string {
	switch file.MediaType {
	case "audio/mpeg":
		return "mp3"
	case "audio/mp4":
		return "m4a"
	case "audio/aac":
		return "aac"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/flac":
		return "flac"
	case "audio/ogg":
		return "ogg"
	case "audio/opus":
		return "opus"
	case "audio/webm":
		return "webm"
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Name)), "."); ext != "" {
		return ext
	}
	return "mp3"
}
