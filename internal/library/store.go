package library

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store manages the session library. It is owned by a single daemon process
// and guards all mutation behind one mutex; gateway calls complete before
// any mutating method is invoked, so partial records are never observable.
type Store struct {
	mu        sync.Mutex
	records   []*Record // newest first
	activeID  string
	selection map[string]struct{}

	now   func() time.Time
	newID func() string
}

// Option customizes store construction.
type Option func(*Store)

// WithClock overrides the timestamp source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record id minting (useful for tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore constructs an empty library.
func NewStore(opts ...Option) *Store {
	s := &Store{
		selection: make(map[string]struct{}),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a record built from a successful transcription result at
// the front of the library and marks it active. Ids are never recycled.
func (s *Store) Create(tr Transcript, courseName string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &Record{
		ID:         s.newID(),
		Title:      strings.TrimSpace(tr.Title),
		Content:    tr.Content,
		CourseName: strings.TrimSpace(courseName),
		CreatedAt:  s.now().UTC(),
	}
	s.insertFront(record)
	s.activeID = record.ID
	return cloneRecord(record)
}

// ApplyNotes installs a freshly generated notes document on the record with
// the given id. The previous latest document and its version shift into the
// previous slot as a unit, and the version counter advances by exactly one
// relative to its value at apply time. The library is untouched on error.
func (s *Store) ApplyNotes(id, notes string) (*Record, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, fmt.Errorf("apply notes: empty document: %w", ErrInvalidOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.lookup(id)
	if record == nil {
		return nil, fmt.Errorf("apply notes: record %s: %w", id, ErrNotFound)
	}

	record.NotesPrevious = record.NotesLatest
	record.PreviousVersion = record.LatestVersion
	record.NotesLatest = notes
	record.LatestVersion++
	return cloneRecord(record), nil
}

// Remove deletes every record whose id appears in ids. Unknown ids are
// ignored, so repeated calls are no-ops. The active pointer is cleared when
// the active record is removed, and the selection set is reset once the
// batch completes. Returns the number of records removed.
func (s *Store) Remove(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	kept := s.records[:0]
	removed := 0
	for _, record := range s.records {
		if _, ok := doomed[record.ID]; ok {
			removed++
			if record.ID == s.activeID {
				s.activeID = ""
			}
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept
	s.selection = make(map[string]struct{})
	return removed
}

// Merge builds a new record whose content concatenates each source record's
// title and content in the caller-specified order. The merged record takes
// its course from the first id, is inserted at the front, and becomes
// active. Source records are retained; deletion is a separate explicit
// action. Fewer than two resolvable ids is an invalid operation and leaves
// the library unchanged.
func (s *Store) Merge(ids []string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sources := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record := s.lookup(id)
		if record == nil {
			return nil, fmt.Errorf("merge: record %s: %w", id, ErrNotFound)
		}
		sources = append(sources, record)
	}
	if len(sources) < 2 {
		return nil, fmt.Errorf("merge: need at least two records, got %d: %w", len(sources), ErrInvalidOperation)
	}

	sections := make([]string, 0, len(sources))
	titles := make([]string, 0, len(sources))
	for _, source := range sources {
		sections = append(sections, mergedSection(source))
		titles = append(titles, source.Title)
	}

	merged := &Record{
		ID:         s.newID(),
		Title:      mergedTitle(titles),
		Content:    strings.Join(sections, MergeDelimiter),
		CourseName: sources[0].CourseName,
		CreatedAt:  s.now().UTC(),
	}
	s.insertFront(merged)
	s.activeID = merged.ID
	s.selection = make(map[string]struct{})
	return cloneRecord(merged), nil
}

// ToggleSelect adds the id to the selection set if absent and removes it if
// present, returning the resulting selection in library order.
func (s *Store) ToggleSelect(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookup(id) == nil {
		return nil, fmt.Errorf("select: record %s: %w", id, ErrNotFound)
	}
	if _, ok := s.selection[id]; ok {
		delete(s.selection, id)
	} else {
		s.selection[id] = struct{}{}
	}
	return s.selectionLocked(), nil
}

// Selection returns the selected ids in library order.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

// List returns copies of all records, newest first.
func (s *Store) List() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Record, len(s.records))
	for i, record := range s.records {
		out[i] = cloneRecord(record)
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.lookup(id)
	if record == nil {
		return nil, fmt.Errorf("get: record %s: %w", id, ErrNotFound)
	}
	return cloneRecord(record), nil
}

// Active returns a copy of the active record, or nil when no record is
// active.
func (s *Store) Active() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return nil
	}
	record := s.lookup(s.activeID)
	if record == nil {
		return nil
	}
	return cloneRecord(record)
}

// SetActive points the active record at the given id.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookup(id) == nil {
		return fmt.Errorf("set active: record %s: %w", id, ErrNotFound)
	}
	s.activeID = id
	return nil
}

// ClearActive unsets the active pointer.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// Len returns the number of records in the library.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) insertFront(record *Record) {
	s.records = append(s.records, nil)
	copy(s.records[1:], s.records)
	s.records[0] = record
}

func (s *Store) lookup(id string) *Record {
	if id == "" {
		return nil
	}
	for _, record := range s.records {
		if record.ID == id {
			return record
		}
	}
	return nil
}

func (s *Store) selectionLocked() []string {
	if len(s.selection) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.selection))
	for _, record := range s.records {
		if _, ok := s.selection[record.ID]; ok {
			out = append(out, record.ID)
		}
	}
	return out
}

func cloneRecord(record *Record) *Record {
	if record == nil {
		return nil
	}
	cp := *record
	return &cp
}
