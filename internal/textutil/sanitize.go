package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizePathSegment sanitizes name for use as a single directory name.
// Names that would resolve to the current or parent directory, or that
// sanitize to nothing, are replaced with fallback.
func SanitizePathSegment(name, fallback string) string {
	cleaned := SanitizeFileName(name)
	switch cleaned {
	case "", ".", "..":
		return fallback
	}
	return cleaned
}
