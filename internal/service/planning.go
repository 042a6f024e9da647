package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/export"
)

type PlanningStore interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListEvents(ctx context.Context) ([]domain.PlanningEvent, error)
	InsertEvents(ctx context.Context, events []domain.PlanningEvent) error
	DeleteEvent(ctx context.Context, id string) error
}

type Planning interface {
	Week(ctx context.Context, weekOf time.Time) (*PlanningWeekView, error)
	Create(ctx context.Context, params EventParams) (domain.PlanningEvent, error)
	Delete(ctx context.Context, id string) error
	WeekICS(ctx context.Context, weekOf time.Time) (string, error)
	ImportICS(ctx context.Context, icsText string) (int, error)
}

type planning struct {
	store PlanningStore
	clock clock.Clock
}

func NewPlanning(store PlanningStore, clk clock.Clock) *planning {
	return &planning{store: store, clock: clk}
}

type PlanningWeekView struct {
	WeekInput  string      `json:"weekInput"`
	WeekNumber int         `json:"weekNumber"`
	Label      string      `json:"label"`
	Events     []EventView `json:"events"`
}

type EventView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ClientName string `json:"clientName,omitempty"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Location   string `json:"location,omitempty"`
	URL        string `json:"url,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Imported   bool   `json:"imported"`
}

func (s *planning) Week(ctx context.Context, weekOf time.Time) (*PlanningWeekView, error) {
	week, err := s.weekEvents(ctx, weekOf)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(week))
	for _, event := range week {
		view := EventView{
			ID:       event.ID,
			Title:    event.Title,
			Start:    calendar.FormatDateTime(event.StartTime),
			End:      calendar.FormatDateTime(event.EndTime),
			Location: event.Location,
			URL:      event.URL,
			Notes:    event.Notes,
			Imported: event.Source == domain.EventSourceImported,
		}
		if event.ClientID != "" {
			view.ClientName = domain.ClientName(clients, event.ClientID)
		}
		views = append(views, view)
	}

	weekStart := calendar.WeekStart(weekOf)
	return &PlanningWeekView{
		WeekInput:  calendar.FormatWeekInput(weekStart),
		WeekNumber: calendar.ISOWeekNumber(weekStart),
		Label:      calendar.WeekRangeLabel(weekStart),
		Events:     views,
	}, nil
}

func (s *planning) weekEvents(ctx context.Context, weekOf time.Time) ([]domain.PlanningEvent, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	start := calendar.WeekStart(weekOf)
	end := calendar.WeekEnd(weekOf)

	week := []domain.PlanningEvent{}
	for _, event := range events {
		if event.StartTime.Before(start) || event.StartTime.After(end) {
			continue
		}
		week = append(week, event)
	}
	return week, nil
}

type EventParams struct {
	ClientID string
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	URL      string
	Notes    string
}

func (s *planning) Create(ctx context.Context, params EventParams) (domain.PlanningEvent, error) {
	if params.Title == "" {
		return domain.PlanningEvent{}, domain.Invalid("title", "an event title is required")
	}
	if params.Start.IsZero() || params.End.IsZero() {
		return domain.PlanningEvent{}, domain.Invalid("period", "start and end times are required")
	}
	if !params.End.After(params.Start) {
		return domain.PlanningEvent{}, domain.Invalid("period", "end time must be after start time")
	}

	event := domain.PlanningEvent{
		ID:        uuid.NewString(),
		ClientID:  params.ClientID,
		Title:     params.Title,
		StartTime: params.Start,
		EndTime:   params.End,
		Location:  params.Location,
		URL:       params.URL,
		Notes:     params.Notes,
		Source:    domain.EventSourceLocal,
	}
	if err := s.store.InsertEvents(ctx, []domain.PlanningEvent{event}); err != nil {
		return domain.PlanningEvent{}, err
	}
	return event, nil
}

func (s *planning) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.Invalid("event", "an event id is required")
	}
	return s.store.DeleteEvent(ctx, id)
}

func (s *planning) WeekICS(ctx context.Context, weekOf time.Time) (string, error) {
	week, err := s.weekEvents(ctx, weekOf)
	if err != nil {
		return "", err
	}
	return export.ICS(week, s.clock.Now()), nil
}

// ImportICS persists every parseable event from the calendar file as a
// regular row tagged imported, so the week view reads from one source.
func (s *planning) ImportICS(ctx context.Context, icsText string) (int, error) {
	events := export.ParseICS(icsText)
	if len(events) == 0 {
		return 0, domain.Invalid("file", "no events found in the calendar file")
	}
	for i := range events {
		events[i].ID = uuid.NewString()
	}
	if err := s.store.InsertEvents(ctx, events); err != nil {
		return 0, err
	}
	return len(events), nil
}
