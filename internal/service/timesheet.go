package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/export"
	"github.com/vjamst/meestercrm/internal/ledger"
	"github.com/vjamst/meestercrm/internal/money"
)

// TimesheetStore is the slice of persistence the timesheet needs.
type TimesheetStore interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (domain.Client, error)
	ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
	InsertTimeEntry(ctx context.Context, e domain.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id string) error
}

type Timesheet interface {
	Status() TimerStatus
	Start(ctx context.Context, clientID, description string) error
	Stop(ctx context.Context) (domain.TimeEntry, error)
	Reset()
	SubmitManual(ctx context.Context, params ManualEntryParams) (domain.TimeEntry, error)
	Week(ctx context.Context, weekOf time.Time) (*WeekView, error)
	WeekCSV(ctx context.Context, weekOf time.Time) (string, error)
	DeleteEntry(ctx context.Context, id string) error
}

type timesheet struct {
	store   TimesheetStore
	tracker *ledger.Tracker
	clock   clock.Clock

	mu      sync.Mutex
	pending []domain.TimeEntry
}

func NewTimesheet(store TimesheetStore, clk clock.Clock) *timesheet {
	return &timesheet{
		store:   store,
		tracker: ledger.NewTracker(clk),
		clock:   clk,
	}
}

// TimerStatus is the view-model the timer widget polls every second.
type TimerStatus struct {
	Running        bool   `json:"running"`
	ClientID       string `json:"clientId,omitempty"`
	Description    string `json:"description,omitempty"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	ElapsedDisplay string `json:"elapsedDisplay"`
}

func (s *timesheet) Status() TimerStatus {
	session := s.tracker.Session()
	elapsed := s.tracker.Elapsed()
	return TimerStatus{
		Running:        session.Running,
		ClientID:       session.ClientID,
		Description:    session.Description,
		ElapsedSeconds: elapsed,
		ElapsedDisplay: calendar.FormatDuration(elapsed),
	}
}

func (s *timesheet) Start(ctx context.Context, clientID, description string) error {
	return s.tracker.Start(clientID, description)
}

// Stop ends the timer and persists the resulting entry. Entries whose
// insert failed are queued and retried on every later Stop, oldest
// first, so a flaky store never loses a stopped session even when new
// sessions run in between.
func (s *timesheet) Stop(ctx context.Context) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tracker.Session().Running {
		if len(s.pending) > 0 {
			return s.flushPending(ctx)
		}
		return domain.TimeEntry{}, domain.ErrTimerNotRunning
	}

	var rate float64
	if client, err := s.store.GetClient(ctx, s.tracker.Session().ClientID); err == nil {
		rate = client.HourlyRate
	}

	entry, err := s.tracker.Stop(rate)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	s.pending = append(s.pending, entry)
	if _, err := s.flushPending(ctx); err != nil {
		return entry, err
	}
	return entry, nil
}

// flushPending inserts queued entries oldest first, dropping each one as
// it lands. On failure the remaining entries stay queued for the next
// attempt.
func (s *timesheet) flushPending(ctx context.Context) (domain.TimeEntry, error) {
	var last domain.TimeEntry
	for len(s.pending) > 0 {
		entry := s.pending[0]
		if err := s.store.InsertTimeEntry(ctx, entry); err != nil {
			return entry, fmt.Errorf("save stopped timer: %w", err)
		}
		s.pending = s.pending[1:]
		last = entry
	}
	return last, nil
}

func (s *timesheet) Reset() {
	s.tracker.Reset()
}

type ManualEntryParams struct {
	ClientID    string
	Description string
	Start       time.Time
	End         time.Time
	Billable    bool
	// Rate is the raw form value. Empty falls back to the client's
	// default rate; anything else must parse as a non-negative number.
	Rate string
}

func (s *timesheet) SubmitManual(ctx context.Context, params ManualEntryParams) (domain.TimeEntry, error) {
	var rate float64
	if params.Rate == "" {
		if client, err := s.store.GetClient(ctx, params.ClientID); err == nil {
			rate = client.HourlyRate
		}
	} else {
		parsed, err := strconv.ParseFloat(params.Rate, 64)
		if err != nil {
			return domain.TimeEntry{}, domain.Invalid("rate", "hourly rate must be a number")
		}
		rate = parsed
	}

	entry, err := s.tracker.SubmitManual(params.ClientID, params.Start, params.End, params.Description, params.Billable, rate)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	if err := s.store.InsertTimeEntry(ctx, entry); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("save manual entry: %w", err)
	}
	return entry, nil
}

// WeekView is the weekly timesheet: the entries of one ISO week plus the
// derived totals the table footer shows.
type WeekView struct {
	WeekInput    string       `json:"weekInput"`
	WeekNumber   int          `json:"weekNumber"`
	Label        string       `json:"label"`
	WeekStart    time.Time    `json:"weekStart"`
	WeekEnd      time.Time    `json:"weekEnd"`
	Entries      []EntryView  `json:"entries"`
	TotalSeconds int64        `json:"totalSeconds"`
	TotalDisplay string       `json:"totalDisplay"`
}

type EntryView struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"clientId"`
	ClientName      string  `json:"clientName"`
	Description     string  `json:"description"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationSeconds int64   `json:"durationSeconds"`
	DurationDisplay string  `json:"durationDisplay"`
	HourlyRate      float64 `json:"hourlyRate"`
	Billable        bool    `json:"billable"`
	Billed          bool    `json:"billed"`
}

func (s *timesheet) Week(ctx context.Context, weekOf time.Time) (*WeekView, error) {
	entries, err := s.store.ListTimeEntries(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := calendar.WeekStart(weekOf)
	week := ledger.FilterWeek(entries, weekStart)
	total := ledger.TotalSeconds(week)

	views := make([]EntryView, 0, len(week))
	for _, entry := range week {
		views = append(views, EntryView{
			ID:              entry.ID,
			ClientID:        entry.ClientID,
			ClientName:      domain.ClientName(clients, entry.ClientID),
			Description:     entry.Description,
			Start:           calendar.FormatDateTime(entry.StartTime),
			End:             calendar.FormatDateTime(entry.EndTime),
			DurationSeconds: entry.DurationSeconds(),
			DurationDisplay: calendar.FormatDuration(entry.DurationSeconds()),
			HourlyRate:      entry.HourlyRate,
			Billable:        entry.Billable,
			Billed:          entry.Billed,
		})
	}

	return &WeekView{
		WeekInput:    calendar.FormatWeekInput(weekStart),
		WeekNumber:   calendar.ISOWeekNumber(weekStart),
		Label:        calendar.WeekRangeLabel(weekStart),
		WeekStart:    weekStart,
		WeekEnd:      calendar.WeekEnd(weekStart),
		Entries:      views,
		TotalSeconds: total,
		TotalDisplay: calendar.FormatDuration(total),
	}, nil
}

func (s *timesheet) WeekCSV(ctx context.Context, weekOf time.Time) (string, error) {
	week, err := s.Week(ctx, weekOf)
	if err != nil {
		return "", err
	}

	rows := [][]string{{"Datum", "Klant", "Omschrijving", "Start", "Einde", "Duur", "Uurtarief", "Facturabel"}}
	for _, entry := range week.Entries {
		billable := "nee"
		if entry.Billable {
			billable = "ja"
		}
		rows = append(rows, []string{
			entry.Start[:10],
			entry.ClientName,
			entry.Description,
			entry.Start,
			entry.End,
			entry.DurationDisplay,
			money.Format(entry.HourlyRate),
			billable,
		})
	}
	return export.CSV(rows), nil
}

func (s *timesheet) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return domain.Invalid("entry", "an entry id is required")
	}
	return s.store.DeleteTimeEntry(ctx, id)
}
