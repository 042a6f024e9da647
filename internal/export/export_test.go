package export

import (
	"strings"
	"testing"
	"time"

	"github.com/vjamst/meestercrm/internal/domain"
)

func TestCSVEscaping(t *testing.T) {
	rows := [][]string{
		{"Datum", "Omschrijving"},
		{"01-03-2024", "overleg; met notulen"},
		{"02-03-2024", `zei "klaar"`},
		{"03-03-2024", "regel\ntwee"},
	}

	got := CSV(rows)
	lines := strings.Split(got, "\n")

	if lines[0] != "Datum;Omschrijving" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != `01-03-2024;"overleg; met notulen"` {
		t.Fatalf("delimiter cell = %q", lines[1])
	}
	if lines[2] != `02-03-2024;"zei ""klaar"""` {
		t.Fatalf("quoted cell = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], `03-03-2024;"regel`) {
		t.Fatalf("newline cell not quoted: %q", lines[3])
	}
}

func TestICSRoundTrip(t *testing.T) {
	start := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	events := []domain.PlanningEvent{
		{
			ID:        "evt-1",
			Title:     "Sprintreview, team A",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Location:  "Utrecht; kantoor",
			Notes:     "agenda\nvolgt",
			URL:       "https://example.com/call",
		},
	}

	doc := ICS(events, start)

	if !strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//MeesterCRM//NL") {
		t.Fatalf("unexpected calendar header: %q", doc[:60])
	}
	if !strings.Contains(doc, `SUMMARY:Sprintreview\, team A`) {
		t.Fatalf("summary not escaped: %q", doc)
	}

	parsed := ParseICS(doc)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d events, want 1", len(parsed))
	}
	event := parsed[0]
	if event.Title != "Sprintreview, team A" {
		t.Fatalf("title = %q", event.Title)
	}
	if event.Location != "Utrecht; kantoor" {
		t.Fatalf("location = %q", event.Location)
	}
	if event.Notes != "agenda\nvolgt" {
		t.Fatalf("notes = %q", event.Notes)
	}
	if !event.StartTime.Equal(start) {
		t.Fatalf("start = %s, want %s", event.StartTime, start)
	}
	if !event.EndTime.Equal(start.Add(time.Hour)) {
		t.Fatalf("end = %s", event.EndTime)
	}
	if event.Source != domain.EventSourceImported {
		t.Fatalf("source = %q, want imported", event.Source)
	}
}

func TestParseICSSkipsIncompleteEvents(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Zonder tijden",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:Geldig",
		"DTSTART:20240304T100000Z",
		"DTEND:20240304T110000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	parsed := ParseICS(doc)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d events, want 1", len(parsed))
	}
	if parsed[0].Title != "Geldig" {
		t.Fatalf("title = %q", parsed[0].Title)
	}
}

func TestParseICSFloatingLocalTime(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VEVENT",
		"SUMMARY:Lokaal",
		"DTSTART;TZID=Europe/Amsterdam:20240304T100000",
		"DTEND;TZID=Europe/Amsterdam:20240304T110000",
		"END:VEVENT",
	}, "\r\n")

	parsed := ParseICS(doc)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d events, want 1", len(parsed))
	}
	want := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.Local)
	if !parsed[0].StartTime.Equal(want) {
		t.Fatalf("start = %s, want %s", parsed[0].StartTime, want)
	}
}
