package testsupport

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"scrambleorg/internal/wcif"
)

// SampleCompetitionName is the name carried by SampleWCIF.
const SampleCompetitionName = "Example Open 2025"

// SampleWCIF is a two-day competition with one venue and two rooms.
const SampleWCIF = `{
  "formatVersion": "1.0",
  "id": "ExampleOpen2025",
  "name": "Example Open 2025",
  "schedule": {
    "startDate": "2025-05-03",
    "numberOfDays": 2,
    "venues": [{
      "id": 1,
      "name": "Main",
      "timezone": "UTC",
      "rooms": [
        {
          "id": 1,
          "name": "R1",
          "activities": [
            {"id": 1, "name": "Registration", "activityCode": "other-registration",
             "startTime": "2025-05-03T08:00:00Z", "endTime": "2025-05-03T09:00:00Z", "childActivities": []},
            {"id": 2, "name": "3x3x3 Cube, Round 1", "activityCode": "333-r1",
             "startTime": "2025-05-03T09:00:00Z", "endTime": "2025-05-03T10:00:00Z",
             "childActivities": [
               {"id": 3, "name": "Group 1", "activityCode": "333-r1-g1",
                "startTime": "2025-05-03T09:00:00Z", "endTime": "2025-05-03T09:30:00Z", "childActivities": []},
               {"id": 4, "name": "Group 2", "activityCode": "333-r1-g2",
                "startTime": "2025-05-03T09:30:00Z", "endTime": "2025-05-03T10:00:00Z", "childActivities": []}
             ]},
            {"id": 5, "name": "3x3x3 Fewest Moves, Round 1, Attempt 1", "activityCode": "333fm-r1-a1",
             "startTime": "2025-05-03T13:00:00Z", "endTime": "2025-05-03T14:00:00Z", "childActivities": []},
            {"id": 6, "name": "3x3x3 Cube, Round 2", "activityCode": "333-r2",
             "startTime": "2025-05-04T10:00:00Z", "endTime": "2025-05-04T11:00:00Z",
             "childActivities": [
               {"id": 7, "name": "Group 1", "activityCode": "333-r2-g1",
                "startTime": "2025-05-04T10:00:00Z", "endTime": "2025-05-04T11:00:00Z", "childActivities": []}
             ]}
          ]
        },
        {
          "id": 2,
          "name": "R2",
          "activities": [
            {"id": 8, "name": "2x2x2 Cube, Round 1", "activityCode": "222-r1",
             "startTime": "2025-05-03T10:00:00Z", "endTime": "2025-05-03T11:00:00Z",
             "childActivities": [
               {"id": 9, "name": "Group 1", "activityCode": "222-r1-g1",
                "startTime": "2025-05-03T10:00:00Z", "endTime": "2025-05-03T11:00:00Z", "childActivities": []}
             ]}
          ]
        }
      ]
    }]
  }
}`

// SampleScrambleFiles maps each generated PDF to the room directory it belongs in.
var SampleScrambleFiles = map[string]string{
	"3x3x3 Cube Round 1 Scramble Set A.pdf":                   filepath.Join("Main", "R1"),
	"3x3x3 Cube Round 1 Scramble Set B.pdf":                   filepath.Join("Main", "R1"),
	"3x3x3 Fewest Moves Round 1 Scramble Set A Attempt 1.pdf": filepath.Join("Main", "R1"),
	"3x3x3 Cube Round 2 Scramble Set A.pdf":                   filepath.Join("Main", "R1"),
	"2x2x2 Cube Round 1 Scramble Set A.pdf":                   filepath.Join("Main", "R2"),
}

// SampleManifest is the passcode file shipped with the sample bundle, in
// generator order rather than schedule order.
const SampleManifest = "Example Open 2025 Computer Display PDF Passcodes\r\n" +
	"2x2x2 Cube Round 1 Scramble Set A: twa111\r\n" +
	"3x3x3 Cube Round 1 Scramble Set A: thra11\r\n" +
	"3x3x3 Cube Round 1 Scramble Set B: thrb22\r\n" +
	"3x3x3 Cube Round 2 Scramble Set A: thr2a3\r\n" +
	"3x3x3 Fewest Moves Round 1 Scramble Set A Attempt 1: fmc001\r\n"

// SampleCompetition decodes SampleWCIF.
func SampleCompetition(t testing.TB) *wcif.Competition {
	t.Helper()
	comp, err := wcif.Decode(strings.NewReader(SampleWCIF))
	if err != nil {
		t.Fatalf("decode sample wcif: %v", err)
	}
	return comp
}

// WriteSampleFlat writes the sample PDFs and passcode manifest directly into dir.
func WriteSampleFlat(t testing.TB, dir string) {
	t.Helper()
	for name := range SampleScrambleFiles {
		WritePDF(t, filepath.Join(dir, name))
	}
	manifest := filepath.Join(dir, SampleCompetitionName+" - Computer Display PDF Passcodes - SECRET.txt")
	if err := os.WriteFile(manifest, []byte(SampleManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

// SampleBundle returns the sample scramble bundle as zip bytes.
func SampleBundle(t testing.TB) []byte {
	t.Helper()
	pdfs := make(map[string][]byte, len(SampleScrambleFiles))
	for name := range SampleScrambleFiles {
		pdfs["Computer Display PDFs/"+name] = ScramblePDF(name)
	}
	prefix := SampleCompetitionName + "/" + SampleCompetitionName
	return ZipBytes(t, map[string][]byte{
		prefix + " - Computer Display PDFs.zip":                   ZipBytes(t, pdfs),
		prefix + " - Computer Display PDF Passcodes - SECRET.txt": []byte(SampleManifest),
	})
}

// WriteSampleBundle writes SampleBundle to path.
func WriteSampleBundle(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, SampleBundle(t), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
}

// ZipBytes builds an in-memory zip with entries in sorted order.
func ZipBytes(t testing.TB, files map[string][]byte) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write(files[name]); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// ZipEntries lists the entry names of the zip at path in sorted order.
func ZipEntries(t testing.TB, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}
