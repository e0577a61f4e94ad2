package library

import (
	"strings"
	"time"
)

// Transcript is the result of a successful transcription call and the only
// input a record can be created from.
type Transcript struct {
	Title   string
	Content string
}

// Record is one transcription unit with its derived notes history.
//
// Content is immutable after creation. The notes fields mutate only as a
// unit through Store.ApplyNotes: the latest slot shifts into the previous
// slot and the version counter advances by exactly one. An empty notes
// string means the slot is unset; the version counters are authoritative.
type Record struct {
	ID         string
	Title      string
	Content    string
	CourseName string
	CreatedAt  time.Time

	NotesLatest     string
	NotesPrevious   string
	LatestVersion   int
	PreviousVersion int
}

// HasNotes reports whether at least one notes generation has completed.
func (r Record) HasNotes() bool {
	return r.LatestVersion > 0
}

// HasPreviousNotes reports whether a regeneration has displaced an earlier
// notes document into the previous slot.
func (r Record) HasPreviousNotes() bool {
	return r.PreviousVersion > 0
}

// MergeDelimiter separates source sections in the content of a merged
// record.
const MergeDelimiter = "\n\n----------------------------------------\n\n"

// mergedTitle builds the display title for a record derived from several
// sources.
func mergedTitle(titles []string) string {
	cleaned := make([]string, 0, len(titles))
	for _, title := range titles {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return "Merged session"
	}
	return strings.Join(cleaned, " + ")
}

// mergedSection renders one source record as a block of the merged content.
func mergedSection(r *Record) string {
	title := strings.TrimSpace(r.Title)
	content := strings.TrimSpace(r.Content)
	if title == "" {
		return content
	}
	if content == "" {
		return title
	}
	return title + "\n\n" + content
}
