package daemon

import (
	"context"
	"strings"

	"lectern/internal/ingest"
	"lectern/internal/library"
	"lectern/internal/logging"
	"lectern/internal/services"
)

// Transcribe sends lecture audio through the transcription gateway and files
// the resulting session in the library. The library is only touched after the
// gateway call succeeds.
func (d *Daemon) Transcribe(ctx context.Context, sessionTitle, courseName string, files []ingest.EncodedFile) (*library.Record, error) {
	course, err := d.resolveCourse(courseName)
	if err != nil {
		return nil, err
	}

	transcript, err := d.transcriber.TranscribeLecture(ctx, sessionTitle, files)
	if err != nil {
		d.logger.Error("transcription failed",
			logging.String("course", course),
			logging.Error(err))
		return nil, err
	}

	record := d.store.Create(transcript, course)
	d.logger.Info("session created",
		logging.String("session_id", record.ID),
		logging.String("title", record.Title),
		logging.String("course", course),
		logging.Int("files", len(files)))
	return record, nil
}

// RegenerateNotes runs the notes gateway over an existing session transcript
// and applies the result as the newest notes version. A gateway failure
// leaves the session untouched.
func (d *Daemon) RegenerateNotes(ctx context.Context, id string) (*library.Record, error) {
	record, err := d.store.Get(id)
	if err != nil {
		return nil, err
	}

	notes, err := d.notes.GenerateStudyNotes(ctx, record.Title, record.Content)
	if err != nil {
		d.logger.Error("notes generation failed",
			logging.String("session_id", id),
			logging.Error(err))
		return nil, err
	}

	updated, err := d.store.ApplyNotes(id, notes)
	if err != nil {
		return nil, err
	}
	d.logger.Info("notes generated",
		logging.String("session_id", id),
		logging.Int("version", updated.LatestVersion))
	return updated, nil
}

// ListSessions returns the library newest first.
func (d *Daemon) ListSessions() []*library.Record {
	return d.store.List()
}

// GetSession returns a single session by id.
func (d *Daemon) GetSession(id string) (*library.Record, error) {
	return d.store.Get(id)
}

// ActiveSession returns the session the library currently points at, or nil.
func (d *Daemon) ActiveSession() *library.Record {
	return d.store.Active()
}

// SetActiveSession points the library at an existing session.
func (d *Daemon) SetActiveSession(id string) error {
	return d.store.SetActive(id)
}

// RemoveSessions deletes the given sessions and reports how many existed.
func (d *Daemon) RemoveSessions(ids []string) int {
	removed := d.store.Remove(ids...)
	d.logger.Info("sessions removed",
		logging.Int("requested", len(ids)),
		logging.Int("removed", removed))
	return removed
}

// MergeSessions combines two or more sessions into a new one.
func (d *Daemon) MergeSessions(ids []string) (*library.Record, error) {
	merged, err := d.store.Merge(ids)
	if err != nil {
		return nil, err
	}
	d.logger.Info("sessions merged",
		logging.Int("sources", len(ids)),
		logging.String("session_id", merged.ID))
	return merged, nil
}

// MergeSelected merges the current selection in library order.
func (d *Daemon) MergeSelected() (*library.Record, error) {
	selection := d.store.Selection()
	if len(selection) < 2 {
		return nil, services.Wrap(services.ErrInvalidOperation, "daemon", "merge", "merge requires at least two selected sessions", nil)
	}
	return d.MergeSessions(selection)
}

// ToggleSelect flips a session's membership in the merge selection.
func (d *Daemon) ToggleSelect(id string) ([]string, error) {
	return d.store.ToggleSelect(id)
}

// Selection returns the selected session ids in library order.
func (d *Daemon) Selection() []string {
	return d.store.Selection()
}

// Courses returns all course names plus the active one.
func (d *Daemon) Courses() ([]string, string, error) {
	names, err := d.catalog.List()
	if err != nil {
		return nil, "", err
	}
	active, err := d.catalog.Active()
	if err != nil {
		return nil, "", err
	}
	return names, active, nil
}

// AddCourse registers a new course in the catalog.
func (d *Daemon) AddCourse(name string) (string, error) {
	return d.catalog.Add(name)
}

// RemoveCourse deletes a course from the catalog.
func (d *Daemon) RemoveCourse(name string) error {
	return d.catalog.Remove(name)
}

// UseCourse marks a course as the active filing target.
func (d *Daemon) UseCourse(name string) (string, error) {
	stored, err := d.catalog.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := d.catalog.SetActive(stored); err != nil {
		return "", err
	}
	d.logger.Info("active course changed", logging.String("course", stored))
	return stored, nil
}

func (d *Daemon) resolveCourse(courseName string) (string, error) {
	if strings.TrimSpace(courseName) == "" {
		return d.catalog.Active()
	}
	return d.catalog.Resolve(courseName)
}
