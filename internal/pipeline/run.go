package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scrambleorg/internal/events"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/organizer"
	"scrambleorg/internal/passcodes"
	"scrambleorg/internal/services"
	"scrambleorg/internal/wcif"
)

// Stage names used in wrapped errors and log context.
const (
	StageEvents    = "events"
	StageOrganize  = "organizing"
	StagePasscodes = "passcodes"
	StageBundle    = "bundle"
	StagePack      = "packing"
	StageWorkspace = "workspace"
)

// Options configures a Run.
type Options struct {
	Logger *slog.Logger
	Dates  passcodes.DateFormatter
	// Now overrides the clock used for unmatched passcode entries.
	Now func() time.Time
}

// WarningKind classifies a recoverable problem.
type WarningKind string

const (
	WarningSkippedActivity WarningKind = "skipped_activity"
	WarningMissingFile     WarningKind = "missing_file"
	WarningSkippedLines    WarningKind = "skipped_passcode_lines"
	WarningUnmatchedEntry  WarningKind = "unmatched_passcodes"
)

// Warning is a recoverable problem reported by a run.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Result is the outcome of a successful Run.
type Result struct {
	Occurrences []events.Occurrence
	Skipped     []events.Skipped
	Relocation  organizer.Report
	Passcodes   passcodes.Report
	Warnings    []Warning
}

// Run organizes workDir for comp. Any fatal error aborts the run; the
// directory may be partially reorganized in that case.
func Run(ctx context.Context, comp *wcif.Competition, workDir string, opts Options) (Result, error) {
	var result Result
	if comp == nil {
		return result, services.Wrap(services.ErrValidation, StageEvents, "load schedule", "No competition provided", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "pipeline")
	ctx = services.WithCompetition(ctx, comp.Name)

	occurrences, skipped, err := events.Build(comp.Schedule)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, StageEvents, "build occurrences", "Schedule could not be flattened", err)
	}
	result.Occurrences = occurrences
	result.Skipped = skipped
	for _, s := range skipped {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningSkippedActivity,
			Message: fmt.Sprintf("%s in %s/%s: %s", s.ActivityCode, s.Venue, s.Room, s.Reason),
		})
	}
	logging.WithContext(ctx, logger).Info("schedule flattened",
		logging.Int("occurrences", len(occurrences)),
		logging.Int("skipped", len(skipped)),
	)

	org := organizer.New(workDir, opts.Logger)
	organizeCtx := services.WithStage(ctx, StageOrganize)
	if err := org.Layout(organizeCtx, comp.Schedule); err != nil {
		return result, err
	}
	report, err := org.Relocate(organizeCtx, occurrences)
	if err != nil {
		return result, err
	}
	result.Relocation = report
	for _, m := range report.Missing {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningMissingFile,
			Message: fmt.Sprintf("%s (expected in %s/%s)", m.FileName, m.Venue, m.Room),
		})
	}

	reorganizer := passcodes.NewReorganizer(opts.Dates, opts.Logger)
	if opts.Now != nil {
		reorganizer.Now = opts.Now
	}
	passReport, err := reorganizer.Reorganize(services.WithStage(ctx, StagePasscodes), workDir, comp.Name, occurrences)
	if err != nil {
		return result, err
	}
	result.Passcodes = passReport
	if passReport.SkippedLines > 0 {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningSkippedLines,
			Message: fmt.Sprintf("%d manifest line(s) did not match the passcode format", passReport.SkippedLines),
		})
	}
	if passReport.Unmatched > 0 {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningUnmatchedEntry,
			Message: fmt.Sprintf("%d passcode entries had no scheduled group and were dated with the current time", passReport.Unmatched),
		})
	}
	return result, nil
}
