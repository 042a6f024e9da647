// Package export renders planning and ledger data to the CSV and ICS
// interchange formats and parses ICS files back into planning events.
package export

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vjamst/meestercrm/internal/domain"
)

const icsProdID = "-//MeesterCRM//NL"

// ICS renders events as a VCALENDAR document with CRLF line endings.
func ICS(events []domain.PlanningEvent, now time.Time) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:" + icsProdID}
	for _, event := range events {
		lines = append(lines, icsEventLines(event, now)...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

func icsEventLines(event domain.PlanningEvent, now time.Time) []string {
	uid := event.ID
	if uid == "" {
		uid = uuid.NewString()
	}
	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + formatICSDate(now),
		"DTSTART:" + formatICSDate(event.StartTime),
		"DTEND:" + formatICSDate(event.EndTime),
		"SUMMARY:" + escapeICS(event.Title),
	}
	if event.Notes != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICS(event.Notes))
	}
	if event.Location != "" {
		lines = append(lines, "LOCATION:"+escapeICS(event.Location))
	}
	if event.URL != "" {
		lines = append(lines, "URL:"+escapeICS(event.URL))
	}
	lines = append(lines, "END:VEVENT")
	return lines
}

func formatICSDate(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeICS(value string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, ",", `\,`, ";", `\;`)
	return r.Replace(value)
}

var icsDatePattern = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})T?(\d{2})?(\d{2})?(\d{2})?`)

// ParseICS extracts VEVENT blocks from an ICS document. Unknown
// properties are skipped; events missing a start or end are dropped.
// Parsed events are tagged as imported so they persist as regular rows.
func ParseICS(text string) []domain.PlanningEvent {
	events := []domain.PlanningEvent{}
	var current *domain.PlanningEvent

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "BEGIN:VEVENT"):
			current = &domain.PlanningEvent{Source: domain.EventSourceImported}
		case strings.HasPrefix(line, "END:VEVENT"):
			if current != nil && !current.StartTime.IsZero() && !current.EndTime.IsZero() {
				events = append(events, *current)
			}
			current = nil
		case current != nil:
			rawKey, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			key, _, _ := strings.Cut(rawKey, ";")
			switch key {
			case "SUMMARY":
				current.Title = unescapeICS(value)
			case "DESCRIPTION":
				current.Notes = unescapeICS(value)
			case "LOCATION":
				current.Location = unescapeICS(value)
			case "URL":
				current.URL = value
			case "DTSTART":
				current.StartTime = parseICSDate(value)
			case "DTEND":
				current.EndTime = parseICSDate(value)
			}
		}
	}
	return events
}

func unescapeICS(value string) string {
	r := strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\,`, ",", `\;`, ";")
	return r.Replace(value)
}

func parseICSDate(value string) time.Time {
	if t, err := time.Parse("20060102T150405Z", value); err == nil {
		return t
	}
	m := icsDatePattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}
	}
	padded := m[1] + m[2] + m[3] + "T" + orZero(m[4]) + orZero(m[5]) + orZero(m[6])
	t, err := time.ParseInLocation("20060102T150405", padded, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func orZero(s string) string {
	if s == "" {
		return "00"
	}
	return s
}
