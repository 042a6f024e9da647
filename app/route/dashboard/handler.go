package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vjamst/meestercrm/app/respond"
	"github.com/vjamst/meestercrm/internal/service"
)

type HandlerGroup struct {
	svc service.Dashboard
}

func NewHandlerGroup(svc service.Dashboard) *HandlerGroup {
	return &HandlerGroup{svc: svc}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Get("/dashboard", hg.handleOverview)
}

func (hg *HandlerGroup) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := hg.svc.Overview(r.Context())
	if err != nil {
		respond.Err(w, err)
		return
	}
	render.JSON(w, r, overview)
}
