package ingest

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"lectern/internal/services"
)

// EncodedFile is an uploaded file prepared for transport to the AI backend:
// display name, base64 payload, resolved media type, and a short text
// preview when the content is textual.
type EncodedFile struct {
	Name      string
	MediaType string
	Data      string
	Preview   string
}

const previewLimit = 280

// Extensions whose media type must not depend on the host's mime table; the
// backend keys audio format tokens off these, so e.g. .opus stays audio/opus
// even where /etc/mime.types files it under audio/ogg.
var mediaTypeByExtension = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".webm": "audio/webm",
	".md":   "text/markdown",
	".txt":  "text/plain",
	".pdf":  "application/pdf",
}

// FromPath reads and encodes a single file. The transformation is pure: no
// state is kept beyond the returned record.
func FromPath(path string) (EncodedFile, error) {
	var empty EncodedFile

	path = strings.TrimSpace(path)
	if path == "" {
		return empty, services.Wrap(services.ErrValidation, "ingest", "encode", "path required", nil)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return empty, fmt.Errorf("read %s: %w", path, err)
	}
	if len(payload) == 0 {
		return empty, services.Wrap(services.ErrValidation, "ingest", "encode", fmt.Sprintf("%s is empty", path), nil)
	}

	name := filepath.Base(path)
	mediaType := ResolveMediaType(name)
	encoded := EncodedFile{
		Name:      name,
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(payload),
	}
	if isTextual(mediaType) {
		encoded.Preview = buildPreview(payload)
	}
	return encoded, nil
}

// FromPaths encodes a batch of files, failing on the first unreadable entry.
func FromPaths(paths []string) ([]EncodedFile, error) {
	files := make([]EncodedFile, 0, len(paths))
	for _, path := range paths {
		encoded, err := FromPath(path)
		if err != nil {
			return nil, err
		}
		files = append(files, encoded)
	}
	return files, nil
}

// ResolveMediaType maps a file name to its media type. Pinned extensions
// resolve from the built-in map; everything else consults the platform mime
// table. Unknown extensions resolve to application/octet-stream.
func ResolveMediaType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "application/octet-stream"
	}
	if mapped, ok := mediaTypeByExtension[ext]; ok {
		return mapped
	}
	if byTable := mime.TypeByExtension(ext); byTable != "" {
		if mediaType, _, err := mime.ParseMediaType(byTable); err == nil {
			return mediaType
		}
	}
	return "application/octet-stream"
}

// IsAudio reports whether the encoded file holds lecture audio rather than
// reference material.
func (f EncodedFile) IsAudio() bool {
	return strings.HasPrefix(f.MediaType, "audio/")
}

// Partition splits a batch into lecture audio and reference documents.
func Partition(files []EncodedFile) (audio, references []EncodedFile) {
	for _, file := range files {
		if file.IsAudio() {
			audio = append(audio, file)
		} else {
			references = append(references, file)
		}
	}
	return audio, references
}

func isTextual(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/json" ||
		mediaType == "application/xml"
}

func buildPreview(payload []byte) string {
	if !utf8.Valid(payload) {
		return ""
	}
	text := strings.TrimSpace(string(payload))
	runes := []rune(text)
	if len(runes) > previewLimit {
		text = string(runes[:previewLimit]) + "..."
	}
	return text
}
