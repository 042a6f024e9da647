package task

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vjamst/meestercrm/app/respond"
	"github.com/vjamst/meestercrm/internal/service"
)

type HandlerGroup struct {
	svc service.Tasks
}

func NewHandlerGroup(svc service.Tasks) *HandlerGroup {
	return &HandlerGroup{svc: svc}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", hg.handleList)
		r.Post("/", hg.handleCreate)
		r.Put("/{id}", hg.handleUpdate)
		r.Delete("/{id}", hg.handleDelete)
	})
}

func (hg *HandlerGroup) handleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := hg.svc.List(r.Context())
	if err != nil {
		respond.Err(w, err)
		return
	}
	render.JSON(w, r, tasks)
}

type TaskRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Deadline    string `form:"deadline"`
	Priority    string `form:"priority"`
	Status      string `form:"status"`

	deadline time.Time
}

const dateOnly = "2006-01-02"

// TaskRequest satisfies [render.Binder]
func (req *TaskRequest) Bind(r *http.Request) error {
	if req.Title == "" {
		return errors.New("A task title is required.")
	}
	if req.Deadline != "" {
		var err error
		req.deadline, err = time.ParseInLocation(dateOnly, req.Deadline, time.Local)
		if err != nil {
			return fmt.Errorf("Invalid deadline: %s", req.Deadline)
		}
	}
	return nil
}

func (req *TaskRequest) toParams() service.TaskParams {
	return service.TaskParams{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.deadline,
		Priority:    req.Priority,
		Status:      req.Status,
	}
}

func (hg *HandlerGroup) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := &TaskRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	task, err := hg.svc.Create(r.Context(), req.toParams())
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Taak "+task.Title+" opgeslagen")
}

func (hg *HandlerGroup) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req := &TaskRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	if err := hg.svc.Update(r.Context(), chi.URLParam(r, "id"), req.toParams()); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Taak bijgewerkt")
}

func (hg *HandlerGroup) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := hg.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Taak verwijderd")
}
