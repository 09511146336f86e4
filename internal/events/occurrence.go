package events

import "time"

// Group is one scramble group of a round.
type Group struct {
	Label     string
	Number    int
	StartTime time.Time
}

// Occurrence is a single round of an event held in a specific room.
// Exactly one of Attempt (> 0) or Groups (non-empty) is populated.
type Occurrence struct {
	EventCode string
	EventName string
	Venue     string
	Room      string
	Round     int
	Attempt   int
	Groups    []Group
	StartTime time.Time
}

// AttemptBased reports whether the occurrence is keyed by attempt rather than group.
func (o Occurrence) AttemptBased() bool {
	return o.Attempt > 0
}

// HasGroup reports whether a group with the given label belongs to the occurrence.
func (o Occurrence) HasGroup(label string) bool {
	for _, g := range o.Groups {
		if g.Label == label {
			return true
		}
	}
	return false
}

// Skipped records a round activity that produced no occurrence.
type Skipped struct {
	Venue        string
	Room         string
	ActivityCode string
	Reason       string
}
