package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"scrambleorg/internal/config"
	"scrambleorg/internal/history"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/pipeline"
	"scrambleorg/internal/services"
	"scrambleorg/internal/wcif"
	"scrambleorg/internal/workspace"
)

const (
	multipartMemory  = 32 << 20
	defaultRunsLimit = 50
	maxRunsLimit     = 500

	// UploadsDirName is the staging subdirectory holding per-request workspaces.
	UploadsDirName = "uploads"
)

// Server exposes the upload API.
type Server struct {
	bind       string
	token      string
	stagingDir string
	staleAfter time.Duration
	sweepSpec  string
	maxUpload  int64
	processor  *pipeline.Processor
	store      *history.Store
	logger     *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New builds a server. store may be nil, in which case run listings are unavailable.
func New(cfg *config.Config, processor *pipeline.Processor, store *history.Store, logger *slog.Logger) *Server {
	srv := &Server{
		bind:       strings.TrimSpace(cfg.Server.Bind),
		token:      cfg.Server.Token,
		stagingDir: filepath.Join(cfg.Paths.StagingDir, UploadsDirName),
		staleAfter: cfg.StaleUploadAge(),
		sweepSpec:  cfg.Server.SweepSchedule,
		maxUpload:  cfg.MaxUploadBytes(),
		processor:  processor,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "api-server"),
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scramble-upload", authMiddleware(s.token, s.handleUpload))
	mux.HandleFunc("/api/runs", authMiddleware(s.token, s.handleRuns))
	mux.HandleFunc("/api/runs/", authMiddleware(s.token, s.handleRun))
	return mux
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s.staleAfter > 0 {
		s.sweep()
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(s.sweepSpec, s.sweep); err != nil {
			return fmt.Errorf("schedule upload sweep: %w", err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		return nil
	}
}

// Addr returns the bound listener address once Serve has started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", History: s.store != nil})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "Missing WCIF data or file")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	rawWCIF := r.FormValue("wcif")
	file, _, err := r.FormFile("file")
	if strings.TrimSpace(rawWCIF) == "" || err != nil {
		s.writeError(w, http.StatusBadRequest, "Missing WCIF data or file")
		return
	}
	defer file.Close()

	comp, err := wcif.Decode(strings.NewReader(rawWCIF))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid WCIF data")
		return
	}

	runID := history.NewRunID()
	ctx := services.WithRunID(r.Context(), runID)
	logger := logging.WithContext(services.WithCompetition(ctx, comp.Name), s.logger)

	workDir := filepath.Join(s.stagingDir, runID)
	uploadPath := workDir + ".upload.zip"
	archivePath := workDir + ".zip"
	defer s.cleanup(logger, workDir, uploadPath, archivePath)

	if err := saveUpload(file, uploadPath); err != nil {
		logger.Error("failed to store upload", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to process scramble bundle")
		return
	}

	outcome, err := s.processor.Process(ctx, pipeline.Request{
		Competition: comp,
		BundlePath:  uploadPath,
		WorkDir:     workDir,
		ArchivePath: archivePath,
		Source:      history.SourceHTTP,
		RunID:       runID,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to process scramble bundle")
		return
	}

	result, err := os.Open(outcome.ArchivePath)
	if err != nil {
		logger.Error("failed to open packed archive", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to process scramble bundle")
		return
	}
	defer result.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": comp.OrganizedArchiveName(),
	}))
	w.Header().Set("X-Run-ID", runID)
	w.Header().Set("X-Run-Warnings", strconv.Itoa(len(outcome.Result.Warnings)))
	if info, err := result.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, result); err != nil {
		logger.Warn("failed to stream archive", logging.Error(err))
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "run history unavailable")
		return
	}
	limit := defaultRunsLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(parsed, maxRunsLimit)
	}
	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	resp := RunListResponse{Runs: make([]RunView, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, FromRun(run))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "run history unavailable")
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/runs/"), "/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing run id")
		return
	}
	run, err := s.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load run", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	s.writeJSON(w, http.StatusOK, FromRun(*run))
}

func (s *Server) sweep() {
	if removed := workspace.Sweep(s.stagingDir, time.Now().Add(-s.staleAfter), s.logger); removed > 0 {
		s.logger.Info("stale uploads swept", logging.Int("removed", removed))
	}
}

func (s *Server) cleanup(logger *slog.Logger, workDir string, files ...string) {
	if err := workspace.Discard(workDir); err != nil {
		logger.Warn("failed to remove request workspace", logging.Error(err))
	}
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove request file", logging.String("path", path), logging.Error(err))
		}
	}
}

func saveUpload(src io.Reader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return fmt.Errorf("write upload file: %w", err)
	}
	return out.Close()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
