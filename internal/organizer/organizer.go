package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"scrambleorg/internal/events"
	"scrambleorg/internal/fileutil"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/services"
	"scrambleorg/internal/textutil"
	"scrambleorg/internal/wcif"
)

const stageName = "organizing"

// Organizer relocates scramble files beneath a single working directory.
type Organizer struct {
	root   string
	logger *slog.Logger
}

// Missing records a derived file name that was not found in the working directory.
type Missing struct {
	FileName string
	Venue    string
	Room     string
}

// Report summarizes a Relocate pass.
type Report struct {
	// Moved holds target paths relative to the working directory.
	Moved   []string
	Missing []Missing
}

// New constructs an organizer rooted at the working directory.
func New(root string, logger *slog.Logger) *Organizer {
	return &Organizer{root: root, logger: logging.NewComponentLogger(logger, "organizer")}
}

// Root returns the working directory.
func (o *Organizer) Root() string {
	return o.root
}

// RoomDir returns the directory that receives the files of a venue/room pair.
// Both names are sanitized, so the result can differ from the raw WCIF names.
func (o *Organizer) RoomDir(venue, room string) string {
	return filepath.Join(
		o.root,
		textutil.SanitizePathSegment(venue, "venue"),
		textutil.SanitizePathSegment(room, "room"),
	)
}

// Layout creates a directory for every room in the schedule, including rooms
// that end up empty. Existing directories are left alone.
func (o *Organizer) Layout(ctx context.Context, schedule wcif.Schedule) error {
	logger := logging.WithContext(ctx, o.logger)
	created := 0
	for _, venue := range schedule.Venues {
		for _, room := range venue.Rooms {
			dir := o.RoomDir(venue.Name, room.Name)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return services.Wrap(services.ErrTransient, stageName, "create room dir",
					fmt.Sprintf("Failed to create directory for %s/%s", venue.Name, room.Name), err)
			}
			created++
		}
	}
	logger.Debug("room layout ready", logging.Int("rooms", created))
	return nil
}

// ScrambleFileNames derives the PDF names produced for an occurrence: one
// per group, or a single set A file for attempt-based rounds.
func ScrambleFileNames(occ events.Occurrence) []string {
	if occ.AttemptBased() {
		return []string{fmt.Sprintf("%s Round %d Scramble Set A Attempt %d.pdf", occ.EventName, occ.Round, occ.Attempt)}
	}
	names := make([]string, 0, len(occ.Groups))
	for _, group := range occ.Groups {
		names = append(names, fmt.Sprintf("%s Round %d Scramble Set %s.pdf", occ.EventName, occ.Round, group.Label))
	}
	return names
}

// Relocate moves every derived file from the working directory root into its
// room directory. Missing sources are reported and skipped; any other
// filesystem failure aborts the pass.
func (o *Organizer) Relocate(ctx context.Context, occurrences []events.Occurrence) (Report, error) {
	logger := logging.WithContext(ctx, o.logger)
	var report Report
	for _, occ := range occurrences {
		targetDir := o.RoomDir(occ.Venue, occ.Room)
		for _, name := range ScrambleFileNames(occ) {
			src := filepath.Join(o.root, name)
			if _, err := os.Lstat(src); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					report.Missing = append(report.Missing, Missing{FileName: name, Venue: occ.Venue, Room: occ.Room})
					logging.WarnWithContext(logger, "scramble file missing", "scramble_file_missing",
						logging.String("file", name),
						logging.String("venue", occ.Venue),
						logging.String("room", occ.Room),
						logging.String(logging.FieldErrorHint, "check the scramble bundle matches the schedule"),
						logging.String(logging.FieldImpact, "file not placed in a room directory"),
					)
					continue
				}
				return report, services.Wrap(services.ErrTransient, stageName, "stat scramble file", "Unable to read "+name, err)
			}
			dst := filepath.Join(targetDir, name)
			if err := fileutil.MoveFile(src, dst); err != nil {
				return report, services.Wrap(services.ErrTransient, stageName, "move scramble file",
					fmt.Sprintf("Failed to move %s into %s/%s", name, occ.Venue, occ.Room), err)
			}
			rel, err := filepath.Rel(o.root, dst)
			if err != nil {
				rel = dst
			}
			report.Moved = append(report.Moved, rel)
		}
	}
	logger.Info("scramble files relocated",
		logging.Int("moved", len(report.Moved)),
		logging.Int("missing", len(report.Missing)),
	)
	return report, nil
}
