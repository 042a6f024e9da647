package domain

import "time"

// EventSource distinguishes events created in the planner from events
// merged in from an ICS import. Imported events are persisted as regular
// rows so the week view has a single source of truth.
type EventSource string

const (
	EventSourceLocal    EventSource = "local"
	EventSourceImported EventSource = "imported"
)

type PlanningEvent struct {
	ID        string
	ClientID  string
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Location  string
	URL       string
	Notes     string
	Source    EventSource
}
