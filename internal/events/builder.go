package events

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"scrambleorg/internal/wcif"
)

var (
	// ErrUnknownEvent marks an activity whose event code has no display name.
	ErrUnknownEvent = errors.New("unknown event code")
	// ErrMalformedCode marks an activity code that does not follow event-rN[-gN].
	ErrMalformedCode = errors.New("malformed activity code")
)

const (
	roundPrefix = "r"
	groupPrefix = "g"
)

// Build walks venues, rooms, and activities depth-first and returns the
// competition rounds sorted by start time. Non-competition activities are
// ignored. An unknown event code or an unparseable activity code aborts the
// whole build. Group-based rounds without child activities are reported in
// the skipped list instead of the result.
func Build(schedule wcif.Schedule) ([]Occurrence, []Skipped, error) {
	var (
		occurrences []Occurrence
		skipped     []Skipped
	)
	for _, venue := range schedule.Venues {
		for _, room := range venue.Rooms {
			for _, activity := range room.Activities {
				if strings.HasPrefix(activity.ActivityCode, wcif.OtherActivityPrefix) {
					continue
				}
				occ, err := buildOccurrence(venue.Name, room.Name, activity)
				if err != nil {
					return nil, nil, err
				}
				if !occ.AttemptBased() && len(occ.Groups) == 0 {
					skipped = append(skipped, Skipped{
						Venue:        venue.Name,
						Room:         room.Name,
						ActivityCode: activity.ActivityCode,
						Reason:       "round has no group activities",
					})
					continue
				}
				occurrences = append(occurrences, occ)
			}
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].StartTime.Before(occurrences[j].StartTime)
	})
	return occurrences, skipped, nil
}

func buildOccurrence(venue, room string, activity wcif.Activity) (Occurrence, error) {
	segments := strings.Split(activity.ActivityCode, "-")
	if len(segments) < 2 {
		return Occurrence{}, fmt.Errorf("%w: %q has no round segment", ErrMalformedCode, activity.ActivityCode)
	}
	code := segments[0]
	name, ok := wcif.EventName(code)
	if !ok {
		return Occurrence{}, fmt.Errorf("%w: %q (activity %q in %s/%s)", ErrUnknownEvent, code, activity.ActivityCode, venue, room)
	}
	round, err := segmentNumber(segments[1], roundPrefix)
	if err != nil {
		return Occurrence{}, fmt.Errorf("%w: %q: %w", ErrMalformedCode, activity.ActivityCode, err)
	}

	occ := Occurrence{
		EventCode: code,
		EventName: name,
		Venue:     venue,
		Room:      room,
		Round:     round,
		StartTime: activity.StartTime,
	}

	if wcif.IsAttemptBased(code) {
		// The attempt number follows the round segment; any aN segment is ignored.
		occ.Attempt = round
		return occ, nil
	}

	for _, child := range activity.ChildActivities {
		group, err := buildGroup(child)
		if err != nil {
			return Occurrence{}, err
		}
		occ.Groups = append(occ.Groups, group)
	}
	return occ, nil
}

func buildGroup(child wcif.Activity) (Group, error) {
	segments := strings.Split(child.ActivityCode, "-")
	if len(segments) < 3 {
		return Group{}, fmt.Errorf("%w: child %q has no group segment", ErrMalformedCode, child.ActivityCode)
	}
	number, err := segmentNumber(segments[2], groupPrefix)
	if err != nil {
		return Group{}, fmt.Errorf("%w: child %q: %w", ErrMalformedCode, child.ActivityCode, err)
	}
	return Group{
		Label:     GroupLabel(number),
		Number:    number,
		StartTime: child.StartTime,
	}, nil
}

// segmentNumber parses the positive integer that follows prefix in an
// activity code segment, e.g. ("r2", "r") -> 2.
func segmentNumber(segment, prefix string) (int, error) {
	digits, ok := strings.CutPrefix(segment, prefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("segment %q does not start with %q followed by a number", segment, prefix)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("segment %q has no positive number after %q", segment, prefix)
	}
	return n, nil
}
