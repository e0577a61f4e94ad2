package ipc

import "time"

// Record is the wire representation of a library session.
type Record struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	CourseName      string    `json:"course_name"`
	CreatedAt       time.Time `json:"created_at"`
	NotesLatest     string    `json:"notes_latest"`
	NotesPrevious   string    `json:"notes_previous"`
	LatestVersion   int       `json:"latest_version"`
	PreviousVersion int       `json:"previous_version"`
	Active          bool      `json:"active"`
	Selected        bool      `json:"selected"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool      `json:"running"`
	PID          int       `json:"pid"`
	SessionID    string    `json:"session_id"`
	StartedAt    time.Time `json:"started_at"`
	SessionCount int       `json:"session_count"`
	CourseCount  int       `json:"course_count"`
	ActiveCourse string    `json:"active_course"`
	CatalogPath  string    `json:"catalog_path"`
	LockPath     string    `json:"lock_path"`
}

// HealthRequest asks the daemon to probe the AI backend.
type HealthRequest struct{}

// HealthResponse reports backend reachability. An unreachable backend is a
// normal response, not an RPC failure.
type HealthResponse struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse acknowledges a shutdown request.
type ShutdownResponse struct {
	Stopping bool `json:"stopping"`
}

// TranscribeRequest creates a new session from audio files on disk.
type TranscribeRequest struct {
	Title  string   `json:"title"`
	Course string   `json:"course"`
	Paths  []string `json:"paths"`
}

// TranscribeResponse returns the created session.
type TranscribeResponse struct {
	Session Record `json:"session"`
}

// RegenerateNotesRequest produces a new notes version for a session.
type RegenerateNotesRequest struct {
	ID string `json:"id"`
}

// RegenerateNotesResponse returns the updated session.
type RegenerateNotesResponse struct {
	Session Record `json:"session"`
}

// LibraryListRequest fetches all sessions.
type LibraryListRequest struct{}

// LibraryListResponse contains the library newest first.
type LibraryListResponse struct {
	Sessions []Record `json:"sessions"`
}

// LibraryShowRequest fetches one session by id.
type LibraryShowRequest struct {
	ID string `json:"id"`
}

// LibraryShowResponse contains a single session.
type LibraryShowResponse struct {
	Session Record `json:"session"`
}

// LibraryMergeRequest merges sessions. When Selected is true the current
// selection is merged and IDs is ignored.
type LibraryMergeRequest struct {
	IDs      []string `json:"ids"`
	Selected bool     `json:"selected"`
}

// LibraryMergeResponse returns the merged session.
type LibraryMergeResponse struct {
	Session Record `json:"session"`
}

// LibraryRemoveRequest deletes sessions by id.
type LibraryRemoveRequest struct {
	IDs []string `json:"ids"`
}

// LibraryRemoveResponse reports how many sessions existed and were removed.
type LibraryRemoveResponse struct {
	Removed int `json:"removed"`
}

// SelectToggleRequest flips a session's merge-selection membership.
type SelectToggleRequest struct {
	ID string `json:"id"`
}

// SelectToggleResponse returns the selection after the toggle, in library
// order.
type SelectToggleResponse struct {
	Selection []string `json:"selection"`
}

// CourseListRequest fetches the course catalog.
type CourseListRequest struct{}

// CourseListResponse contains all courses plus the active one.
type CourseListResponse struct {
	Courses []string `json:"courses"`
	Active  string   `json:"active"`
}

// CourseAddRequest registers a new course.
type CourseAddRequest struct {
	Name string `json:"name"`
}

// CourseAddResponse returns the stored course name.
type CourseAddResponse struct {
	Name string `json:"name"`
}

// CourseRemoveRequest deletes a course.
type CourseRemoveRequest struct {
	Name string `json:"name"`
}

// CourseRemoveResponse acknowledges the removal.
type CourseRemoveResponse struct {
	Removed bool `json:"removed"`
}

// CourseUseRequest marks a course active.
type CourseUseRequest struct {
	Name string `json:"name"`
}

// CourseUseResponse returns the stored name of the now-active course.
type CourseUseResponse struct {
	Name string `json:"name"`
}
