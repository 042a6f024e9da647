package timesheet

import (
	"errors"
	"fmt"
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
	svc   service.Timesheet
	clock clock.Clock
}

func NewHandlerGroup(svc service.Timesheet, clk clock.Clock) *HandlerGroup {
	return &HandlerGroup{svc: svc, clock: clk}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Route("/timesheet", func(r chi.Router) {
		r.Get("/timer", hg.handleTimerStatus)
		r.Post("/timer/start", hg.handleStart)
		r.Post("/timer/stop", hg.handleStop)
		r.Post("/timer/reset", hg.handleReset)
		r.Post("/entries", hg.handleManualEntry)
		r.Delete("/entries/{id}", hg.handleDeleteEntry)
		r.Get("/week", hg.handleWeek)
		r.Get("/week/export.csv", hg.handleWeekCSV)
	})
}

func (hg *HandlerGroup) handleTimerStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, hg.svc.Status())
}

type StartTimerRequest struct {
	ClientID    string `form:"client-id"`
	Description string `form:"description"`
}

// StartTimerRequest satisfies [render.Binder]; the ledger does the real
// validation so a raced double-start still gets rejected there.
func (req *StartTimerRequest) Bind(r *http.Request) error {
	if req.ClientID == "" {
		return errors.New("Select a client before starting the timer.")
	}
	return nil
}

func (hg *HandlerGroup) handleStart(w http.ResponseWriter, r *http.Request) {
	req := &StartTimerRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	if err := hg.svc.Start(r.Context(), req.ClientID, req.Description); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Timer gestart")
}

func (hg *HandlerGroup) handleStop(w http.ResponseWriter, r *http.Request) {
	entry, err := hg.svc.Stop(r.Context())
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Timer gestopt: "+calendar.FormatDuration(entry.DurationSeconds()))
}

func (hg *HandlerGroup) handleReset(w http.ResponseWriter, r *http.Request) {
	hg.svc.Reset()
	respond.OK(w, "Timer hersteld")
}

type ManualEntryRequest struct {
	ClientID    string `form:"client-id"`
	Description string `form:"description"`
	Start       string `form:"start"`
	End         string `form:"end"`
	Billable    bool   `form:"billable"`
	Rate        string `form:"rate"`

	start time.Time
	end   time.Time
}

const datetimeLocal = "2006-01-02T15:04"

// ManualEntryRequest satisfies [render.Binder]
func (req *ManualEntryRequest) Bind(r *http.Request) error {
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

func (hg *HandlerGroup) handleManualEntry(w http.ResponseWriter, r *http.Request) {
	req := &ManualEntryRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	entry, err := hg.svc.SubmitManual(r.Context(), service.ManualEntryParams{
		ClientID:    req.ClientID,
		Description: req.Description,
		Start:       req.start,
		End:         req.end,
		Billable:    req.Billable,
		Rate:        req.Rate,
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Uren geregistreerd: "+calendar.FormatDuration(entry.DurationSeconds()))
}

func (hg *HandlerGroup) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := hg.svc.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Urenregel verwijderd")
}

func (hg *HandlerGroup) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := hg.svc.Week(r.Context(), weekFromQuery(r, hg.clock))
	if err != nil {
		respond.Err(w, err)
		return
	}
	render.JSON(w, r, week)
}

func (hg *HandlerGroup) handleWeekCSV(w http.ResponseWriter, r *http.Request) {
	weekOf := weekFromQuery(r, hg.clock)
	csv, err := hg.svc.WeekCSV(r.Context(), weekOf)
	if err != nil {
		respond.Err(w, err)
		return
	}

	filename := fmt.Sprintf("uren-%s.csv", calendar.FormatWeekInput(weekOf))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(csv))
}

// weekFromQuery reads the ?week=YYYY-Www parameter, defaulting to the
// clock's current week when absent or malformed.
func weekFromQuery(r *http.Request, clk clock.Clock) time.Time {
	if value := r.URL.Query().Get("week"); value != "" {
		if monday, err := calendar.ParseWeekInput(value); err == nil {
			return monday
		}
	}
	return clk.Now()
}
