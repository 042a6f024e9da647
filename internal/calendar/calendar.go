// Package calendar implements the week and month arithmetic used to
// bucket time entries and planning events. Weeks are ISO-8601: Monday
// start, week 1 is the week containing the first Thursday of the year.
package calendar

import (
	"fmt"
	"time"
)

// WeekStart returns the Monday at 00:00:00 local time of the week
// containing t, regardless of locale first-day-of-week conventions.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	monday := t.AddDate(0, 0, -offset+1)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeekEnd returns the Sunday at 23:59:59.999 of the week containing t.
func WeekEnd(t time.Time) time.Time {
	start := WeekStart(t)
	return start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
}

// ISOWeekNumber returns the ISO-8601 week number (1..53) of t.
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// ISOWeekYear returns the ISO week-numbering year of t, which differs
// from the calendar year around year boundaries.
func ISOWeekYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

// FormatWeekInput renders t as the "2006-W02" value used by week inputs.
func FormatWeekInput(t time.Time) string {
	return fmt.Sprintf("%d-W%02d", ISOWeekYear(t), ISOWeekNumber(t))
}

// ParseWeekInput is the inverse of FormatWeekInput: given "YYYY-Www" it
// returns the Monday of that ISO week. January 4 always falls in week 1,
// so the Monday of week n is weekStart(Jan 4) + (n-1) weeks. A week 53
// requested in a 52-week year rolls into week 1 of the next year through
// the same arithmetic rather than a special case.
func ParseWeekInput(value string) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(value, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("parse week %q: %w", value, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("parse week %q: week number out of range", value)
	}
	anchor := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
	return WeekStart(anchor).AddDate(0, 0, (week-1)*7), nil
}

// WeekRangeLabel renders a human-readable "start – end" label for the
// week containing t, short month style.
func WeekRangeLabel(t time.Time) string {
	start := WeekStart(t)
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%s – %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}

// MonthStart returns the first day of t's month at 00:00:00.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last day of t's month at 23:59:59.999.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0).Add(-time.Millisecond)
}

// FormatDuration renders a second count as "HH:MM:SS", clamping
// negatives to zero.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDate renders a date in the fixed dd-mm-yyyy display locale.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006")
}

// FormatDateTime renders a timestamp in the fixed display locale.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006 15:04")
}
