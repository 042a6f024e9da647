// Package ledger owns the timer state machine and the validation and
// aggregation rules for time entries.
package ledger

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/domain"
)

// Tracker holds the single timer session. The "at most one active timer"
// constraint lives here: Start rejects while a session is running.
//
// Tracker only computes entries; persisting them is the caller's job.
// Because Stop hands back a fully computed entry, a failed insert can be
// retried with the same value without touching the session again.
type Tracker struct {
	mu      sync.Mutex
	clock   clock.Clock
	session domain.Session
}

func NewTracker(clk clock.Clock) *Tracker {
	return &Tracker{clock: clk}
}

// Start begins a new session. It rejects an empty client id and refuses
// to start while another session is running.
func (t *Tracker) Start(clientID, description string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if clientID == "" {
		return domain.Invalid("client", "a client is required to start the timer")
	}
	if t.session.Running {
		return domain.ErrTimerRunning
	}

	t.session = domain.Session{
		Running:     true,
		StartedAt:   t.clock.Now(),
		ClientID:    clientID,
		Description: description,
	}
	return nil
}

// Session returns a snapshot of the current session for display.
func (t *Tracker) Session() domain.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Elapsed returns the running session's elapsed seconds, derived from
// the clock on every read. The display tick polls this; no server-side
// ticker exists, so there is nothing to leak.
func (t *Tracker) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.session.Running {
		return 0
	}
	return int64(math.Round(t.clock.Now().Sub(t.session.StartedAt).Seconds()))
}

// Stop ends the running session and returns the computed entry. The
// entry is billable by default; defaultRate is the client's rate at the
// moment of stopping.
func (t *Tracker) Stop(defaultRate float64) (domain.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.session.Running {
		return domain.TimeEntry{}, domain.ErrTimerNotRunning
	}

	now := t.clock.Now()
	entry := domain.TimeEntry{
		ID:          uuid.NewString(),
		ClientID:    t.session.ClientID,
		Description: t.session.Description,
		StartTime:   t.session.StartedAt,
		EndTime:     now,
		Billable:    true,
		HourlyRate:  defaultRate,
	}
	t.session = domain.Session{}
	return entry, nil
}

// Reset discards the session without producing an entry. Valid from any
// state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = domain.Session{}
}

// SubmitManual validates and builds a manually entered time entry. It is
// independent of the running session.
func (t *Tracker) SubmitManual(clientID string, start, end time.Time, description string, billable bool, rate float64) (domain.TimeEntry, error) {
	if clientID == "" {
		return domain.TimeEntry{}, domain.Invalid("client", "a client is required")
	}
	if start.IsZero() || end.IsZero() {
		return domain.TimeEntry{}, domain.Invalid("period", "start and end times are required")
	}
	if !end.After(start) {
		return domain.TimeEntry{}, domain.Invalid("period", "end time must be after start time")
	}
	if rate < 0 {
		return domain.TimeEntry{}, domain.Invalid("rate", "hourly rate cannot be negative")
	}

	return domain.TimeEntry{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		Billable:    billable,
		HourlyRate:  rate,
	}, nil
}

// FilterWeek returns the entries whose start time falls within the week
// beginning at weekStart, inclusive on both ends.
func FilterWeek(entries []domain.TimeEntry, weekStart time.Time) []domain.TimeEntry {
	end := calendar.WeekEnd(weekStart)
	filtered := []domain.TimeEntry{}
	for _, entry := range entries {
		if entry.StartTime.Before(weekStart) || entry.StartTime.After(end) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// TotalSeconds sums entry durations. An empty ledger sums to zero.
func TotalSeconds(entries []domain.TimeEntry) int64 {
	var total int64
	for _, entry := range entries {
		total += entry.DurationSeconds()
	}
	return total
}
