package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"lectern/internal/daemon"
	"lectern/internal/ingest"
	"lectern/internal/library"
	"lectern/internal/logging"
)

// ServiceName is the JSON-RPC service the daemon registers on the socket.
const ServiceName = "Lectern"

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. The shutdown
// callback is invoked when a client requests daemon exit.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, shutdown func(), logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, shutdown: shutdown, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName(ServiceName, srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon   *daemon.Daemon
	shutdown func()
	logger   *slog.Logger
	ctx      context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func convertRecord(record *library.Record, activeID string, selected map[string]struct{}) Record {
	if record == nil {
		return Record{}
	}
	_, isSelected := selected[record.ID]
	return Record{
		ID:              record.ID,
		Title:           record.Title,
		Content:         record.Content,
		CourseName:      record.CourseName,
		CreatedAt:       record.CreatedAt,
		NotesLatest:     record.NotesLatest,
		NotesPrevious:   record.NotesPrevious,
		LatestVersion:   record.LatestVersion,
		PreviousVersion: record.PreviousVersion,
		Active:          record.ID == activeID,
		Selected:        isSelected,
	}
}

func (s *service) selectionSet() map[string]struct{} {
	ids := s.daemon.Selection()
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s *service) activeID() string {
	if active := s.daemon.ActiveSession(); active != nil {
		return active.ID
	}
	return ""
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.SessionID = status.SessionID
	resp.StartedAt = status.StartedAt
	resp.SessionCount = status.SessionCount
	resp.CourseCount = status.CourseCount
	resp.ActiveCourse = status.ActiveCourse
	resp.CatalogPath = status.CatalogPath
	resp.LockPath = status.LockFilePath
	return nil
}

func (s *service) Health(_ HealthRequest, resp *HealthResponse) error {
	if err := s.daemon.BackendHealth(s.ctx); err != nil {
		resp.Healthy = false
		resp.Message = err.Error()
		return nil
	}
	resp.Healthy = true
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	s.log().Info("daemon shutdown requested")
	resp.Stopping = true
	if s.shutdown != nil {
		go s.shutdown()
	}
	return nil
}

func (s *service) Transcribe(req TranscribeRequest, resp *TranscribeResponse) error {
	if len(req.Paths) == 0 {
		return errors.New("transcribe requires at least one file")
	}
	files, err := ingest.FromPaths(req.Paths)
	if err != nil {
		return err
	}
	record, err := s.daemon.Transcribe(s.ctx, req.Title, req.Course, files)
	if err != nil {
		return err
	}
	resp.Session = convertRecord(record, s.activeID(), s.selectionSet())
	return nil
}

func (s *service) RegenerateNotes(req RegenerateNotesRequest, resp *RegenerateNotesResponse) error {
	record, err := s.daemon.RegenerateNotes(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Session = convertRecord(record, s.activeID(), s.selectionSet())
	return nil
}

func (s *service) LibraryList(_ LibraryListRequest, resp *LibraryListResponse) error {
	records := s.daemon.ListSessions()
	activeID := s.activeID()
	selected := s.selectionSet()
	resp.Sessions = make([]Record, 0, len(records))
	for _, record := range records {
		resp.Sessions = append(resp.Sessions, convertRecord(record, activeID, selected))
	}
	return nil
}

func (s *service) LibraryShow(req LibraryShowRequest, resp *LibraryShowResponse) error {
	record, err := s.daemon.GetSession(req.ID)
	if err != nil {
		return err
	}
	resp.Session = convertRecord(record, s.activeID(), s.selectionSet())
	return nil
}

func (s *service) LibraryMerge(req LibraryMergeRequest, resp *LibraryMergeResponse) error {
	var (
		record *library.Record
		err    error
	)
	if req.Selected {
		record, err = s.daemon.MergeSelected()
	} else {
		record, err = s.daemon.MergeSessions(req.IDs)
	}
	if err != nil {
		return err
	}
	resp.Session = convertRecord(record, s.activeID(), s.selectionSet())
	return nil
}

func (s *service) LibraryRemove(req LibraryRemoveRequest, resp *LibraryRemoveResponse) error {
	if len(req.IDs) == 0 {
		return errors.New("remove requires at least one session id")
	}
	resp.Removed = s.daemon.RemoveSessions(req.IDs)
	return nil
}

func (s *service) SelectToggle(req SelectToggleRequest, resp *SelectToggleResponse) error {
	selection, err := s.daemon.ToggleSelect(req.ID)
	if err != nil {
		return err
	}
	resp.Selection = selection
	return nil
}

func (s *service) CourseList(_ CourseListRequest, resp *CourseListResponse) error {
	names, active, err := s.daemon.Courses()
	if err != nil {
		return err
	}
	resp.Courses = names
	resp.Active = active
	return nil
}

func (s *service) CourseAdd(req CourseAddRequest, resp *CourseAddResponse) error {
	name, err := s.daemon.AddCourse(req.Name)
	if err != nil {
		return err
	}
	resp.Name = name
	return nil
}

func (s *service) CourseRemove(req CourseRemoveRequest, resp *CourseRemoveResponse) error {
	if err := s.daemon.RemoveCourse(req.Name); err != nil {
		return err
	}
	resp.Removed = true
	return nil
}

func (s *service) CourseUse(req CourseUseRequest, resp *CourseUseResponse) error {
	name, err := s.daemon.UseCourse(req.Name)
	if err != nil {
		return err
	}
	resp.Name = name
	return nil
}
