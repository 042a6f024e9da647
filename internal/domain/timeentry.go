package domain

import "time"

// TimeEntry is one row in the time ledger, produced either by stopping
// the timer or by a manual submission.
type TimeEntry struct {
	ID          string
	ClientID    string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Billable    bool
	// Billed marks entries that have already been converted to an
	// invoice line item. The assembler itself never deduplicates.
	Billed     bool
	HourlyRate float64
}

// DurationSeconds is always derived from the start/end pair; the pair is
// the source of truth, never a stored duration.
func (e TimeEntry) DurationSeconds() int64 {
	return int64(e.EndTime.Sub(e.StartTime).Round(time.Second) / time.Second)
}

// Session is the ephemeral state of an in-progress timer. At most one
// exists per Tracker and it is never persisted.
type Session struct {
	Running     bool
	StartedAt   time.Time
	ClientID    string
	Description string
}
