package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"scrambleorg/internal/httpapi"
	"scrambleorg/internal/passcodes"
	"scrambleorg/internal/testsupport"
)

func TestOrganizeBundleWritesArchiveAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	bundle := filepath.Join(env.baseDir, "bundle.zip")
	testsupport.WriteSampleBundle(t, bundle)
	archivePath := filepath.Join(env.baseDir, "out", "organized.zip")

	out, _, err := runCLI(t, []string{
		"organize", "--wcif", env.wcifPath, "--bundle", bundle,
		"--output", archivePath, "--format", "json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}

	var summary organizeSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary %q: %v", out, err)
	}
	if summary.Moved != len(testsupport.SampleScrambleFiles) || summary.Missing != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.Passcodes != 5 {
		t.Fatalf("expected 5 passcode entries, got %d", summary.Passcodes)
	}
	wantWorkDir := filepath.Join(env.cfg.Paths.StagingDir, "ExampleOpen2025")
	if summary.WorkDir != wantWorkDir {
		t.Fatalf("work dir = %q, want %q", summary.WorkDir, wantWorkDir)
	}
	if _, err := os.Stat(filepath.Join(wantWorkDir, "Main", "R2", "2x2x2 Cube Round 1 Scramble Set A.pdf")); err != nil {
		t.Fatalf("expected organized file: %v", err)
	}

	entries := testsupport.ZipEntries(t, archivePath)
	if !slices.Contains(entries, "Main/R1/3x3x3 Cube Round 2 Scramble Set A.pdf") {
		t.Fatalf("archive missing organized file: %v", entries)
	}

	out, _, err = runCLI(t, []string{"history", "--format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var listing httpapi.RunListResponse
	if err := json.Unmarshal([]byte(out), &listing); err != nil {
		t.Fatalf("decode history %q: %v", out, err)
	}
	if len(listing.Runs) != 1 {
		t.Fatalf("expected one run, got %+v", listing.Runs)
	}
	run := listing.Runs[0]
	if run.ID != summary.RunID || run.Status != "succeeded" || run.Source != "cli" {
		t.Fatalf("unexpected run: %+v", run)
	}
}

func TestOrganizeDirectoryInPlace(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "extracted")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteSampleFlat(t, dir)

	out, _, err := runCLI(t, []string{"organize", "--wcif", env.wcifPath, "--dir", dir, "--format", "plain"}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "Organized Example Open 2025")
	requireContains(t, out, "Moved: 5")

	for name, room := range testsupport.SampleScrambleFiles {
		if _, err := os.Stat(filepath.Join(dir, room, name)); err != nil {
			t.Fatalf("expected %s in %s: %v", name, room, err)
		}
	}
	reorganized := filepath.Join(dir, passcodes.ReorganizedName(testsupport.SampleCompetitionName))
	if _, err := os.Stat(reorganized); err != nil {
		t.Fatalf("expected reorganized manifest: %v", err)
	}
}

func TestOrganizeReportsMissingFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "extracted")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteSampleFlat(t, dir)
	if err := os.Remove(filepath.Join(dir, "3x3x3 Cube Round 2 Scramble Set A.pdf")); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"organize", "--wcif", env.wcifPath, "--dir", dir, "--format", "plain"}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "Missing: 1")
	requireContains(t, out, "missing_file")
	requireContains(t, out, "3x3x3 Cube Round 2 Scramble Set A.pdf")
}

func TestOrganizeRequiresSource(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"organize", "--wcif", env.wcifPath}, env.configPath); err == nil {
		t.Fatal("expected error without --bundle or --dir")
	}
	_, _, err := runCLI(t, []string{"organize", "--dir", env.baseDir}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--wcif") {
		t.Fatalf("expected schedule source error, got %v", err)
	}
}

func TestScheduleFormats(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"schedule", "--wcif", env.wcifPath, "--format", "yaml"}, env.configPath)
	if err != nil {
		t.Fatalf("schedule yaml: %v", err)
	}
	var view scheduleView
	if err := yaml.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode yaml %q: %v", out, err)
	}
	if view.Competition != testsupport.SampleCompetitionName || len(view.Rounds) != 4 {
		t.Fatalf("unexpected schedule: %+v", view)
	}
	var fmc *roundView
	for i := range view.Rounds {
		if view.Rounds[i].EventCode == "333fm" {
			fmc = &view.Rounds[i]
		}
	}
	if fmc == nil || fmc.Attempt != 1 || len(fmc.Groups) != 0 {
		t.Fatalf("unexpected fewest moves round: %+v", fmc)
	}
	if len(fmc.Files) != 1 || fmc.Files[0] != "3x3x3 Fewest Moves Round 1 Scramble Set A Attempt 1.pdf" {
		t.Fatalf("unexpected fewest moves files: %v", fmc.Files)
	}

	out, _, err = runCLI(t, []string{"schedule", "--wcif", env.wcifPath, "--format", "plain"}, env.configPath)
	if err != nil {
		t.Fatalf("schedule plain: %v", err)
	}
	requireContains(t, out, "Start\tEvent\tRound\tSets\tVenue\tRoom")
	requireContains(t, out, "2025-05-03 09:00\t3x3x3 Cube\t1\tA,B\tMain\tR1")
	requireContains(t, out, "attempt 1")

	if _, _, err := runCLI(t, []string{"schedule", "--wcif", env.wcifPath, "--format", "xml"}, env.configPath); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history", "--format", "table"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestTestNotifySendsToTopic(t *testing.T) {
	titles := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles <- r.Header.Get("Title")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify disabled: %v", err)
	}
	requireContains(t, out, "Notifications disabled")

	env.cfg.Notifications.NtfyTopic = server.URL
	writeTestConfig(t, env.configPath, env.cfg)
	out, _, err = runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if len(titles) != 1 {
		t.Fatalf("expected one notification, got %d", len(titles))
	}
	if title := <-titles; title != "scrambleorg - Test" {
		t.Fatalf("unexpected notification title %q", title)
	}
}
