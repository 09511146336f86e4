package passcodes

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Layouts mirror the short numeric date each locale prints for a calendar day.
var (
	dateLocales = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Japanese,
		language.Korean,
		language.Chinese,
	}
	dateLayouts = []string{
		"1/2/2006",
		"02/01/2006",
		"2.1.2006",
		"02/01/2006",
		"2006/1/2",
		"2006. 1. 2.",
		"2006/1/2",
	}
	dateMatcher = language.NewMatcher(dateLocales)
)

const isoDateLayout = "2006-01-02"

// DateFormatter renders the calendar day of a start time for date headers.
type DateFormatter struct {
	layout   string
	location *time.Location
}

// NewDateFormatter resolves locale to a short date layout and binds the
// timezone used to decide calendar days. Unsupported locales fall back to
// ISO dates; a nil location means the local timezone.
func NewDateFormatter(locale string, location *time.Location) (DateFormatter, error) {
	if location == nil {
		location = time.Local
	}
	if locale == "" {
		return DateFormatter{layout: dateLayouts[0], location: location}, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DateFormatter{}, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	_, index, confidence := dateMatcher.Match(tag)
	if confidence == language.No {
		return DateFormatter{layout: isoDateLayout, location: location}, nil
	}
	return DateFormatter{layout: dateLayouts[index], location: location}, nil
}

// Format returns the header text for t.
func (f DateFormatter) Format(t time.Time) string {
	layout := f.layout
	if layout == "" {
		layout = dateLayouts[0]
	}
	location := f.location
	if location == nil {
		location = time.Local
	}
	return t.In(location).Format(layout)
}
