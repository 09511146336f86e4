package wcif

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Competition is the root WCIF document.
type Competition struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Schedule Schedule `json:"schedule"`
}

// Schedule holds the physical layout of the competition.
type Schedule struct {
	StartDate    string  `json:"startDate"`
	NumberOfDays int     `json:"numberOfDays"`
	Venues       []Venue `json:"venues"`
}

// Venue is a physical location hosting one or more rooms.
type Venue struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
	Rooms    []Room `json:"rooms"`
}

// Room is a stage within a venue.
type Room struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Activities []Activity `json:"activities"`
}

// Activity is a scheduled block. Round activities carry codes such as
// "333-r1" and own child activities for each group ("333-r1-g1").
type Activity struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	ActivityCode    string     `json:"activityCode"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         time.Time  `json:"endTime"`
	ChildActivities []Activity `json:"childActivities"`
}

// Decode parses a WCIF document and checks the fields the organizer relies on.
func Decode(r io.Reader) (*Competition, error) {
	var comp Competition
	if err := json.NewDecoder(r).Decode(&comp); err != nil {
		return nil, fmt.Errorf("decode wcif: %w", err)
	}
	comp.Name = strings.TrimSpace(comp.Name)
	if comp.Name == "" {
		return nil, fmt.Errorf("decode wcif: competition name is empty")
	}
	return &comp, nil
}

// Load reads a WCIF document from disk.
func Load(path string) (*Competition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wcif: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// PasscodeFileName is the name of the flat passcode manifest shipped with
// the scramble bundle.
func (c *Competition) PasscodeFileName() string {
	return c.Name + " - Computer Display PDF Passcodes - SECRET.txt"
}

// ScrambleArchiveName is the name of the inner archive holding the
// computer display PDFs.
func (c *Competition) ScrambleArchiveName() string {
	return c.Name + " - Computer Display PDFs.zip"
}

// OrganizedArchiveName is the name of the packed result.
func (c *Competition) OrganizedArchiveName() string {
	return c.Name + " - Organized Scrambles.zip"
}
