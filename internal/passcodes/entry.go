package passcodes

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	linePattern  = regexp.MustCompile(`^(.+) Round ([1-4]) Scramble Set ([A-Z]+)(?: Attempt ([0-9]+))?: ([0-9a-z]+)$`)
	lineSplitter = regexp.MustCompile(`\r?\n`)
)

// Entry is one passcode line.
type Entry struct {
	EventName string
	Round     int
	Group     string
	// Attempt holds the digits of the attempt suffix exactly as written,
	// empty when the line has none.
	Attempt   string
	StartTime time.Time
	Passcode  string
}

// ParseLine matches a single manifest line. The second return value is false
// when the line does not follow the grammar.
func ParseLine(line string) (Entry, bool) {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return Entry{}, false
	}
	round, err := strconv.Atoi(match[2])
	if err != nil {
		return Entry{}, false
	}
	entry := Entry{
		EventName: match[1],
		Round:     round,
		Group:     match[3],
		Passcode:  match[5],
	}
	entry.Attempt = match[4]
	return entry, true
}

// Parse splits manifest text into lines and returns the matching entries in
// file order together with the number of non-empty lines that were skipped.
func Parse(text string) ([]Entry, int) {
	var (
		entries []Entry
		skipped int
	)
	for _, line := range lineSplitter.Split(text, -1) {
		entry, ok := ParseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

// HasAttempt reports whether the line carried an attempt suffix.
func (e Entry) HasAttempt() bool {
	return e.Attempt != ""
}

// String renders the entry in manifest form.
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.EventName)
	b.WriteString(" Round ")
	b.WriteString(strconv.Itoa(e.Round))
	b.WriteString(" Scramble Set ")
	b.WriteString(e.Group)
	if e.HasAttempt() {
		b.WriteString(" Attempt ")
		b.WriteString(e.Attempt)
	}
	b.WriteString(": ")
	b.WriteString(e.Passcode)
	return b.String()
}
