package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scrambleorg/internal/events"
	"scrambleorg/internal/organizer"
)

type scheduleView struct {
	Competition string        `json:"competition" yaml:"competition"`
	Rounds      []roundView   `json:"rounds" yaml:"rounds"`
	Skipped     []skippedView `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type roundView struct {
	Start     string   `json:"start" yaml:"start"`
	EventCode string   `json:"eventCode" yaml:"event_code"`
	Event     string   `json:"event" yaml:"event"`
	Round     int      `json:"round" yaml:"round"`
	Attempt   int      `json:"attempt,omitempty" yaml:"attempt,omitempty"`
	Groups    []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	Venue     string   `json:"venue" yaml:"venue"`
	Room      string   `json:"room" yaml:"room"`
	Files     []string `json:"files" yaml:"files"`
}

type skippedView struct {
	ActivityCode string `json:"activityCode" yaml:"activity_code"`
	Venue        string `json:"venue" yaml:"venue"`
	Room         string `json:"room" yaml:"room"`
	Reason       string `json:"reason" yaml:"reason"`
}

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	var (
		wcifPath      string
		competitionID string
		format        string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the rounds and scramble files derived from a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outFormat, err := resolveFormat(cmd, format)
			if err != nil {
				return err
			}
			comp, err := ctx.loadCompetition(cmd.Context(), wcifPath, competitionID)
			if err != nil {
				return err
			}
			occurrences, skipped, err := events.Build(comp.Schedule)
			if err != nil {
				return fmt.Errorf("flatten schedule: %w", err)
			}
			view := buildScheduleView(comp.Name, occurrences, skipped, cfg.Location())

			switch outFormat {
			case formatJSON:
				return writeJSON(cmd, view)
			case formatYAML:
				return writeYAML(cmd, view)
			}

			rows := make([][]string, 0, len(view.Rounds))
			for _, r := range view.Rounds {
				sets := strings.Join(r.Groups, ",")
				if r.Attempt > 0 {
					sets = "attempt " + strconv.Itoa(r.Attempt)
				}
				rows = append(rows, []string{r.Start, r.Event, strconv.Itoa(r.Round), sets, r.Venue, r.Room})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRows(outFormat, comp.Name,
				[]string{"Start", "Event", "Round", "Sets", "Venue", "Room"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			for _, s := range view.Skipped {
				fmt.Fprintf(out, "skipped %s in %s/%s: %s\n", s.ActivityCode, s.Venue, s.Room, s.Reason)
			}
			return nil
		},
	}

	addCompetitionFlags(cmd, &wcifPath, &competitionID)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, plain, json, or yaml")
	return cmd
}

func buildScheduleView(name string, occurrences []events.Occurrence, skipped []events.Skipped, loc *time.Location) scheduleView {
	view := scheduleView{Competition: name, Rounds: make([]roundView, 0, len(occurrences))}
	for _, occ := range occurrences {
		r := roundView{
			Start:     occ.StartTime.In(loc).Format("2006-01-02 15:04"),
			EventCode: occ.EventCode,
			Event:     occ.EventName,
			Round:     occ.Round,
			Attempt:   occ.Attempt,
			Venue:     occ.Venue,
			Room:      occ.Room,
			Files:     organizer.ScrambleFileNames(occ),
		}
		for _, g := range occ.Groups {
			r.Groups = append(r.Groups, g.Label)
		}
		view.Rounds = append(view.Rounds, r)
	}
	for _, s := range skipped {
		view.Skipped = append(view.Skipped, skippedView{
			ActivityCode: s.ActivityCode,
			Venue:        s.Venue,
			Room:         s.Room,
			Reason:       s.Reason,
		})
	}
	return view
}
