package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lectern/internal/config"
	"lectern/internal/courses"
	"lectern/internal/ingest"
	"lectern/internal/library"
	"lectern/internal/logging"
)

// TranscriptionGateway turns lecture audio into a structured transcript.
type TranscriptionGateway interface {
	TranscribeLecture(ctx context.Context, sessionTitle string, files []ingest.EncodedFile) (library.Transcript, error)
}

// NotesGateway produces Markdown study notes from a transcript.
type NotesGateway interface {
	GenerateStudyNotes(ctx context.Context, title, transcript string) (string, error)
}

// HealthChecker is implemented by gateways that can probe backend
// connectivity without mutating any state.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Daemon holds the session library and coordinates gateway calls.
type Daemon struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *library.Store
	catalog     *courses.Catalog
	transcriber TranscriptionGateway
	notes       NotesGateway

	lockPath  string
	lock      *flock.Flock
	startedAt time.Time
	sessionID string

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	SessionID    string
	StartedAt    time.Time
	SessionCount int
	CourseCount  int
	ActiveCourse string
	CatalogPath  string
	LockFilePath string
}

// New constructs a daemon with injected dependencies.
func New(cfg *config.Config, store *library.Store, catalog *courses.Catalog, transcriber TranscriptionGateway, notes NotesGateway, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || catalog == nil {
		return nil, errors.New("daemon requires config, library store, and course catalog")
	}
	if transcriber == nil || notes == nil {
		return nil, errors.New("daemon requires transcription and notes gateways")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "daemon"),
		store:       store,
		catalog:     catalog,
		transcriber: transcriber,
		notes:       notes,
		lockPath:    lockPath,
		lock:        flock.New(lockPath),
	}, nil
}

// Start acquires the single-instance lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if ctx != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lecternd instance is already running")
	}

	d.startedAt = time.Now()
	d.sessionID = uuid.NewString()
	d.running.Store(true)
	d.logger.Info("lectern daemon started",
		logging.String("session_id", d.sessionID),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("lectern daemon stopped",
		logging.Int("sessions_discarded", d.store.Len()))
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.catalog != nil {
		return d.catalog.Close()
	}
	return nil
}

// Running reports whether the daemon holds the instance lock.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// BackendHealth probes the AI backend through whichever gateway supports
// health checks. The llm client serves both gateways, so in production this
// is a single probe.
func (d *Daemon) BackendHealth(ctx context.Context) error {
	if checker, ok := d.transcriber.(HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	if checker, ok := d.notes.(HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	return errors.New("configured gateways do not support health probes")
}

// Status summarizes daemon runtime state.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		SessionID:    d.sessionID,
		StartedAt:    d.startedAt,
		SessionCount: d.store.Len(),
		CatalogPath:  d.catalog.Path(),
		LockFilePath: d.lockPath,
	}
	if names, err := d.catalog.List(); err == nil {
		status.CourseCount = len(names)
	}
	if active, err := d.catalog.Active(); err == nil {
		status.ActiveCourse = active
	} else {
		d.logger.Warn("failed to read active course", logging.Error(err))
	}
	return status
}
