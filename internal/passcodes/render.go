package passcodes

import (
	"sort"
	"strings"
)

// Render stably sorts entries by start time and joins them with newlines,
// inserting "=== date ===" before the first entry of each new calendar day.
// The output has no trailing newline. The input slice is not modified.
func Render(entries []Entry, dates DateFormatter) string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	lines := make([]string, 0, len(sorted))
	lastDate := ""
	for i, entry := range sorted {
		date := dates.Format(entry.StartTime)
		if i == 0 || date != lastDate {
			lines = append(lines, "=== "+date+" ===")
			lastDate = date
		}
		lines = append(lines, entry.String())
	}
	return strings.Join(lines, "\n")
}
