package passcodes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scrambleorg/internal/events"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/services"
)

const (
	stageName        = "passcodes"
	reorganizedLabel = "[REORGANIZED] "
)

// ManifestName is the passcode file shipped with a competition's scrambles.
func ManifestName(competitionName string) string {
	return competitionName + " - Computer Display PDF Passcodes - SECRET.txt"
}

// ReorganizedName is the file Reorganize writes in place of the manifest.
func ReorganizedName(competitionName string) string {
	return reorganizedLabel + ManifestName(competitionName)
}

// Reorganizer rewrites the passcode manifest inside a working directory.
type Reorganizer struct {
	// Now supplies the start time for entries with no matching round.
	Now    func() time.Time
	Dates  DateFormatter
	logger *slog.Logger
}

// Report summarizes a reorganization.
type Report struct {
	OutputPath   string
	Entries      int
	SkippedLines int
	// Unmatched counts entries that fell back to the clock.
	Unmatched int
}

// NewReorganizer builds a reorganizer using the wall clock.
func NewReorganizer(dates DateFormatter, logger *slog.Logger) *Reorganizer {
	return &Reorganizer{
		Now:    time.Now,
		Dates:  dates,
		logger: logging.NewComponentLogger(logger, "passcodes"),
	}
}

// Reorganize reads the manifest for competitionName from workDir, assigns
// each entry the start time of its round, writes the sorted and dated result
// and removes the original. A missing or unreadable manifest is fatal.
func (r *Reorganizer) Reorganize(ctx context.Context, workDir, competitionName string, occurrences []events.Occurrence) (Report, error) {
	logger := logging.WithContext(ctx, r.logger)
	manifestPath := filepath.Join(workDir, ManifestName(competitionName))
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return Report{}, services.Wrap(marker, stageName, "read manifest",
			fmt.Sprintf("Passcode manifest %q not readable", ManifestName(competitionName)), err)
	}

	entries, skipped := Parse(string(data))
	now := r.now()
	unmatched := 0
	for i := range entries {
		start, ok := ResolveStartTime(entries[i], occurrences)
		if !ok {
			start = now
			unmatched++
			if !entries[i].HasAttempt() {
				logger.Debug("passcode entry has no matching round",
					logging.String("event", entries[i].EventName),
					logging.Int("round", entries[i].Round),
					logging.String("group", entries[i].Group),
				)
			}
		}
		entries[i].StartTime = start
	}
	if skipped > 0 {
		logging.WarnWithContext(logger, "passcode lines skipped", "passcode_lines_skipped",
			logging.Int("skipped_lines", skipped),
			logging.String(logging.FieldErrorHint, "lines must follow '<event> Round N Scramble Set X: code'"),
			logging.String(logging.FieldImpact, "skipped lines are omitted from the reorganized file"),
		)
	}

	output := Render(entries, r.Dates)
	outputPath := filepath.Join(workDir, ReorganizedName(competitionName))
	if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
		return Report{}, services.Wrap(services.ErrTransient, stageName, "write reorganized manifest",
			"Failed to write reorganized passcode file", err)
	}
	if err := os.Remove(manifestPath); err != nil {
		return Report{}, services.Wrap(services.ErrTransient, stageName, "remove manifest",
			"Failed to remove original passcode manifest", err)
	}

	logger.Info("passcodes reorganized",
		logging.String("output", outputPath),
		logging.Int("entries", len(entries)),
		logging.Int("unmatched", unmatched),
	)
	return Report{
		OutputPath:   outputPath,
		Entries:      len(entries),
		SkippedLines: skipped,
		Unmatched:    unmatched,
	}, nil
}

// ResolveStartTime returns the start time of the first group-based
// occurrence with the entry's event name and round that holds the entry's
// group. Attempt-based rounds never match.
func ResolveStartTime(entry Entry, occurrences []events.Occurrence) (time.Time, bool) {
	for _, occ := range occurrences {
		if occ.EventName != entry.EventName || occ.Round != entry.Round || len(occ.Groups) == 0 {
			continue
		}
		if occ.HasGroup(entry.Group) {
			return occ.StartTime, true
		}
	}
	return time.Time{}, false
}

func (r *Reorganizer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
