package events

// GroupLabel maps a 1-based group number to its scramble set letter.
// Numbers outside 1..26 yield an empty label; callers must tolerate it.
func GroupLabel(n int) string {
	if n < 1 || n > 26 {
		return ""
	}
	return string(rune('A' + n - 1))
}
