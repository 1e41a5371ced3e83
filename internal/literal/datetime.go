package literal

import (
	"fmt"
	"time"
)

// Temporal lexical handling for xsd:date and xsd:dateTime.
//
// Timezone-less forms are parsed as UTC and remembered as such; comparison
// and equality treat a missing timezone as UTC (implicit-UTC promotion).

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

var dateTimeLayoutsNoTZ = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseDateTime(s string) (time.Time, bool, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true, nil
		}
	}
	for _, layout := range dateTimeLayoutsNoTZ {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid xsd:dateTime lexical form %q", s)
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02Z07:00", s); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid xsd:date lexical form %q", s)
}

func formatDateTime(t time.Time, hasTZ bool) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05.999999999"
	}
	s := t.UTC().Format(layout)
	if hasTZ {
		s += "Z"
	}
	return s
}

func formatDate(t time.Time, hasTZ bool) string {
	s := t.UTC().Format("2006-01-02")
	if hasTZ {
		s += "Z"
	}
	return s
}

// compareTemporal orders two temporal literals by instant. A date compared
// against a dateTime is promoted to a dateTime at midnight UTC.
func compareTemporal(a, b *Literal) int {
	at, bt := a.when, b.when
	switch {
	case at.Before(bt):
		return -1
	case at.After(bt):
		return 1
	default:
		return 0
	}
}
