package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"scrambleorg/internal/archive"
	"scrambleorg/internal/config"
	"scrambleorg/internal/history"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/notifications"
	"scrambleorg/internal/passcodes"
	"scrambleorg/internal/services"
	"scrambleorg/internal/wcif"
	"scrambleorg/internal/workspace"
)

// Request describes one processing run.
type Request struct {
	Competition *wcif.Competition
	// BundlePath is the uploaded scramble zip. When empty, WorkDir must
	// already hold the extracted files and is organized in place.
	BundlePath string
	WorkDir    string
	// ArchivePath, when set, receives the packed result.
	ArchivePath string
	Source      history.Source
	RunID       string
}

// Outcome is the result of a processed request.
type Outcome struct {
	RunID       string
	WorkDir     string
	ArchivePath string
	Bundle      archive.Bundle
	Packed      int
	Result      Result
}

// Processor runs requests end to end and records them in the history store.
type Processor struct {
	dates    passcodes.DateFormatter
	store    *history.Store
	notifier notifications.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewProcessor builds a processor from configuration. store may be nil to
// skip history recording.
func NewProcessor(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Processor, error) {
	dates, err := passcodes.NewDateFormatter(cfg.Passcodes.Locale, cfg.Location())
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StagePasscodes, "resolve locale", "Invalid passcodes.locale", err)
	}
	return &Processor{
		dates:    dates,
		store:    store,
		notifier: notifications.NewService(cfg),
		logger:   logging.NewComponentLogger(logger, "processor"),
		now:      time.Now,
	}, nil
}

// SetNotifier replaces the notification service built from configuration.
func (p *Processor) SetNotifier(svc notifications.Service) {
	if svc != nil {
		p.notifier = svc
	}
}

// SetClock overrides the clock used for unmatched passcode entries.
func (p *Processor) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// Process locks the workspace, unpacks the bundle when one is given, runs
// the pipeline and optionally packs the result. The run is recorded in the
// history store whatever the outcome.
func (p *Processor) Process(ctx context.Context, req Request) (Outcome, error) {
	outcome := Outcome{RunID: strings.TrimSpace(req.RunID), WorkDir: req.WorkDir}
	if outcome.RunID == "" {
		outcome.RunID = history.NewRunID()
	}
	ctx = services.WithRunID(ctx, outcome.RunID)
	if req.Competition != nil {
		ctx = services.WithCompetition(ctx, req.Competition.Name)
	}
	logger := logging.WithContext(ctx, p.logger)

	run := &history.Run{ID: outcome.RunID, Source: req.Source, StartedAt: p.now()}
	if req.Competition != nil {
		run.CompetitionID = req.Competition.ID
		run.CompetitionName = req.Competition.Name
	}
	p.beginRun(ctx, logger, run)

	err := p.process(ctx, req, &outcome)
	p.finishRun(ctx, logger, run, outcome, err)
	p.notify(ctx, logger, run, outcome, err)
	if err != nil {
		logger.Error("run failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "run_failed"),
			logging.String(logging.FieldErrorHint, errorHint(err)),
		)
		return outcome, err
	}
	logger.Info("run completed",
		logging.String("work_dir", outcome.WorkDir),
		logging.Int("moved", len(outcome.Result.Relocation.Moved)),
		logging.Int("warnings", len(outcome.Result.Warnings)),
	)
	return outcome, nil
}

func (p *Processor) process(ctx context.Context, req Request, outcome *Outcome) error {
	if req.Competition == nil {
		return services.Wrap(services.ErrValidation, StageEvents, "load schedule", "No competition provided", nil)
	}
	if strings.TrimSpace(req.WorkDir) == "" {
		return services.Wrap(services.ErrConfiguration, StageWorkspace, "resolve workspace", "No working directory provided", nil)
	}

	var (
		ws  *workspace.Workspace
		err error
	)
	if req.BundlePath != "" {
		ws, err = workspace.Prepare(req.WorkDir)
	} else {
		ws, err = workspace.Acquire(req.WorkDir)
	}
	if err != nil {
		marker := services.ErrConfiguration
		if errors.Is(err, workspace.ErrWorkspaceBusy) {
			marker = services.ErrBusy
		}
		return services.Wrap(marker, StageWorkspace, "prepare workspace", "Working directory unavailable", err)
	}
	defer func() {
		if err := ws.Release(); err != nil {
			p.logger.Warn("failed to release workspace", logging.Error(err))
		}
	}()
	outcome.WorkDir = ws.Dir()

	if req.BundlePath != "" {
		bundle, err := archive.ExtractBundle(req.BundlePath, req.Competition, ws.Dir())
		outcome.Bundle = bundle
		if err != nil {
			return services.Wrap(services.ErrValidation, StageBundle, "extract bundle", "Scramble bundle could not be unpacked", err)
		}
	}

	result, err := Run(ctx, req.Competition, ws.Dir(), Options{Logger: p.logger, Dates: p.dates, Now: p.now})
	outcome.Result = result
	if err != nil {
		return err
	}

	if req.ArchivePath != "" {
		packed, err := archive.Pack(ws.Dir(), req.ArchivePath)
		if err != nil {
			return services.Wrap(services.ErrTransient, StagePack, "pack result", "Organized scrambles could not be packed", err)
		}
		outcome.Packed = packed
		outcome.ArchivePath = req.ArchivePath
	}
	return nil
}

func (p *Processor) beginRun(ctx context.Context, logger *slog.Logger, run *history.Run) {
	if p.store == nil {
		return
	}
	if err := p.store.Begin(ctx, run); err != nil {
		logging.WarnWithContext(logger, "failed to record run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db is writable"),
			logging.String(logging.FieldImpact, "run will be missing from history"),
		)
	}
}

func (p *Processor) finishRun(ctx context.Context, logger *slog.Logger, run *history.Run, outcome Outcome, runErr error) {
	if p.store == nil {
		return
	}
	run.Status = history.StatusSucceeded
	if runErr != nil {
		run.Status = services.FailureStatus(runErr)
		run.ErrorMessage = runErr.Error()
	}
	run.Occurrences = len(outcome.Result.Occurrences)
	run.Moved = len(outcome.Result.Relocation.Moved)
	run.Missing = len(outcome.Result.Relocation.Missing)
	run.Warnings = len(outcome.Result.Warnings)
	run.FinishedAt = p.now()
	if err := p.store.Finish(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logger, "failed to record run result", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db is writable"),
			logging.String(logging.FieldImpact, "run status in history is stale"),
		)
	}
}

func (p *Processor) notify(ctx context.Context, logger *slog.Logger, run *history.Run, outcome Outcome, runErr error) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if runErr != nil {
		err = p.notifier.NotifyRunFailed(ctx, run.CompetitionName, runErr)
	} else {
		err = p.notifier.NotifyRunCompleted(ctx, notifications.RunSummary{
			RunID:       run.ID,
			Competition: run.CompetitionName,
			Moved:       len(outcome.Result.Relocation.Moved),
			Missing:     len(outcome.Result.Relocation.Missing),
			Warnings:    len(outcome.Result.Warnings),
			Duration:    p.now().Sub(run.StartedAt),
		})
	}
	if err != nil {
		logging.WarnWithContext(logger, "run notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "no alert was sent for this run"),
		)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrBusy):
		return "another run is using this working directory; wait for it to finish"
	case errors.Is(err, services.ErrValidation):
		return "check the WCIF schedule and scramble bundle belong to the same competition"
	case errors.Is(err, services.ErrNotFound):
		return "the passcode manifest is missing from the bundle"
	case errors.Is(err, services.ErrConfiguration):
		return "check the configured paths"
	default:
		return "inspect the log for the failing step and retry"
	}
}
