package planning

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vjamst/meestercrm/app/respond"
	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/service"
)

type HandlerGroup struct {
	svc   service.Planning
	clock clock.Clock
}

func NewHandlerGroup(svc service.Planning, clk clock.Clock) *HandlerGroup {
	return &HandlerGroup{svc: svc, clock: clk}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Route("/planning", func(r chi.Router) {
		r.Get("/week", hg.handleWeek)
		r.Post("/events", hg.handleCreate)
		r.Delete("/events/{id}", hg.handleDelete)
		r.Get("/week/export.ics", hg.handleWeekICS)
		r.Post("/import", hg.handleImport)
	})
}

func (hg *HandlerGroup) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := hg.svc.Week(r.Context(), weekFromQuery(r, hg.clock))
	if err != nil {
		respond.Err(w, err)
		return
	}
	render.JSON(w, r, week)
}

type EventRequest struct {
	ClientID string `form:"client-id"`
	Title    string `form:"title"`
	Start    string `form:"start"`
	End      string `form:"end"`
	Location string `form:"location"`
	URL      string `form:"url"`
	Notes    string `form:"notes"`

	start time.Time
	end   time.Time
}

const datetimeLocal = "2006-01-02T15:04"

// EventRequest satisfies [render.Binder]
func (req *EventRequest) Bind(r *http.Request) error {
	if req.Title == "" {
		return errors.New("An event title is required.")
	}
	if req.Start == "" || req.End == "" {
		return errors.New("Start and end times are required.")
	}

	var err error
	req.start, err = time.ParseInLocation(datetimeLocal, req.Start, time.Local)
	if err != nil {
		return fmt.Errorf("Invalid start time: %s", req.Start)
	}
	req.end, err = time.ParseInLocation(datetimeLocal, req.End, time.Local)
	if err != nil {
		return fmt.Errorf("Invalid end time: %s", req.End)
	}
	return nil
}

func (hg *HandlerGroup) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := &EventRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	event, err := hg.svc.Create(r.Context(), service.EventParams{
		ClientID: req.ClientID,
		Title:    req.Title,
		Start:    req.start,
		End:      req.end,
		Location: req.Location,
		URL:      req.URL,
		Notes:    req.Notes,
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Afspraak "+event.Title+" ingepland")
}

func (hg *HandlerGroup) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := hg.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Afspraak verwijderd")
}

func (hg *HandlerGroup) handleWeekICS(w http.ResponseWriter, r *http.Request) {
	weekOf := weekFromQuery(r, hg.clock)
	ics, err := hg.svc.WeekICS(r.Context(), weekOf)
	if err != nil {
		respond.Err(w, err)
		return
	}

	filename := fmt.Sprintf("planning-%s.ics", calendar.FormatWeekInput(weekOf))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(ics))
}

// handleImport accepts an ICS file, either as a multipart "calendar"
// field or as the raw request body.
func (hg *HandlerGroup) handleImport(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if file, _, err := r.FormFile("calendar"); err == nil {
		defer file.Close()
		body, err = io.ReadAll(file)
		if err != nil {
			respond.Err(w, err)
			return
		}
	} else {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			respond.Err(w, err)
			return
		}
	}

	count, err := hg.svc.ImportICS(r.Context(), string(body))
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, fmt.Sprintf("%d afspraken geïmporteerd", count))
}

func weekFromQuery(r *http.Request, clk clock.Clock) time.Time {
	if value := r.URL.Query().Get("week"); value != "" {
		if monday, err := calendar.ParseWeekInput(value); err == nil {
			return monday
		}
	}
	return clk.Now()
}
