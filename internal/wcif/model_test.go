package wcif_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scrambleorg/internal/wcif"
)

const sampleWCIF = `{
  "formatVersion": "1.0",
  "id": "ExampleOpen2025",
  "name": "Example Open 2025",
  "events": [{"id": "333", "rounds": []}],
  "schedule": {
    "startDate": "2025-05-04",
    "numberOfDays": 1,
    "venues": [{
      "id": 1,
      "name": "Main",
      "timezone": "Europe/London",
      "rooms": [{
        "id": 1,
        "name": "R1",
        "activities": [{
          "id": 10,
          "name": "3x3x3 Cube, Round 1",
          "activityCode": "333-r1",
          "startTime": "2025-05-04T09:00:00Z",
          "endTime": "2025-05-04T10:00:00Z",
          "childActivities": [
            {"id": 11, "name": "Group 1", "activityCode": "333-r1-g1", "startTime": "2025-05-04T09:00:00Z", "endTime": "2025-05-04T09:30:00Z", "childActivities": []}
          ]
        }]
      }]
    }]
  }
}`

func TestDecodeReadsScheduleTree(t *testing.T) {
	comp, err := wcif.Decode(strings.NewReader(sampleWCIF))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if comp.ID != "ExampleOpen2025" || comp.Name != "Example Open 2025" {
		t.Fatalf("unexpected competition header: %+v", comp)
	}
	if len(comp.Schedule.Venues) != 1 || len(comp.Schedule.Venues[0].Rooms) != 1 {
		t.Fatalf("unexpected venue/room layout: %+v", comp.Schedule)
	}
	activity := comp.Schedule.Venues[0].Rooms[0].Activities[0]
	if activity.ActivityCode != "333-r1" {
		t.Fatalf("unexpected activity code %q", activity.ActivityCode)
	}
	want := time.Date(2025, 5, 4, 9, 0, 0, 0, time.UTC)
	if !activity.StartTime.Equal(want) {
		t.Fatalf("unexpected start time %s", activity.StartTime)
	}
	if len(activity.ChildActivities) != 1 || activity.ChildActivities[0].ActivityCode != "333-r1-g1" {
		t.Fatalf("unexpected child activities: %+v", activity.ChildActivities)
	}
}

func TestDecodeRejectsMissingName(t *testing.T) {
	if _, err := wcif.Decode(strings.NewReader(`{"id":"x","name":"  ","schedule":{"venues":[]}}`)); err == nil {
		t.Fatal("expected error for blank competition name")
	}
	if _, err := wcif.Decode(strings.NewReader(`{not json`)); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wcif.json")
	if err := os.WriteFile(path, []byte(sampleWCIF), 0o644); err != nil {
		t.Fatalf("write wcif: %v", err)
	}
	comp, err := wcif.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := comp.PasscodeFileName(); got != "Example Open 2025 - Computer Display PDF Passcodes - SECRET.txt" {
		t.Fatalf("unexpected passcode file name %q", got)
	}
	if got := comp.ScrambleArchiveName(); got != "Example Open 2025 - Computer Display PDFs.zip" {
		t.Fatalf("unexpected scramble archive name %q", got)
	}
	if got := comp.OrganizedArchiveName(); got != "Example Open 2025 - Organized Scrambles.zip" {
		t.Fatalf("unexpected organized archive name %q", got)
	}
	if _, err := wcif.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEventCatalog(t *testing.T) {
	tests := []struct {
		code string
		name string
		ok   bool
	}{
		{"333", "3x3x3 Cube", true},
		{"333fm", "3x3x3 Fewest Moves", true},
		{"333mbf", "3x3x3 Multi-Blind", true},
		{"sq1", "Square-1", true},
		{"444bf", "4x4x4 Blindfolded", true},
		{"888", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		name, ok := wcif.EventName(tc.code)
		if ok != tc.ok || name != tc.name {
			t.Fatalf("EventName(%q) = %q, %v; want %q, %v", tc.code, name, ok, tc.name, tc.ok)
		}
	}
	if !wcif.IsAttemptBased("333fm") || !wcif.IsAttemptBased("333mbf") {
		t.Fatal("expected fewest moves and multi-blind to be attempt based")
	}
	if wcif.IsAttemptBased("333") {
		t.Fatal("3x3x3 should be group based")
	}
}
