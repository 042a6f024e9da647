package client

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vjamst/meestercrm/app/respond"
	"github.com/vjamst/meestercrm/internal/service"
)

type HandlerGroup struct {
	svc service.Clients
}

func NewHandlerGroup(svc service.Clients) *HandlerGroup {
	return &HandlerGroup{svc: svc}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", hg.handleList)
		r.Post("/", hg.handleCreate)
		r.Put("/{id}", hg.handleUpdate)
		r.Delete("/{id}", hg.handleDelete)
	})
}

func (hg *HandlerGroup) handleList(w http.ResponseWriter, r *http.Request) {
	clients, err := hg.svc.List(r.Context())
	if err != nil {
		respond.Err(w, err)
		return
	}
	render.JSON(w, r, clients)
}

type ClientRequest struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Phone string `form:"phone"`
	Rate  string `form:"rate"`
	Notes string `form:"notes"`
}

// ClientRequest satisfies [render.Binder]
func (req *ClientRequest) Bind(r *http.Request) error {
	if req.Name == "" {
		return errors.New("A client name is required.")
	}
	return nil
}

func (req *ClientRequest) toParams() service.ClientParams {
	return service.ClientParams{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Rate:  req.Rate,
		Notes: req.Notes,
	}
}

func (hg *HandlerGroup) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := &ClientRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	client, err := hg.svc.Create(r.Context(), req.toParams())
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Klant "+client.Name+" opgeslagen")
}

func (hg *HandlerGroup) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req := &ClientRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	if err := hg.svc.Update(r.Context(), chi.URLParam(r, "id"), req.toParams()); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Klant bijgewerkt")
}

func (hg *HandlerGroup) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := hg.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Klant verwijderd")
}
