package app

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vjamst/meestercrm/app/component"
	"github.com/vjamst/meestercrm/app/route/client"
	"github.com/vjamst/meestercrm/app/route/dashboard"
	"github.com/vjamst/meestercrm/app/route/invoice"
	"github.com/vjamst/meestercrm/app/route/planning"
	"github.com/vjamst/meestercrm/app/route/task"
	"github.com/vjamst/meestercrm/app/route/timesheet"
)

func (a *App) RegisterRoutes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Handle("/", templ.Handler(component.FullPage("MeesterCRM")))

	dashboard.NewHandlerGroup(a.services.Dashboard).Mount(a.router)
	timesheet.NewHandlerGroup(a.services.Timesheet, a.clock).Mount(a.router)
	planning.NewHandlerGroup(a.services.Planning, a.clock).Mount(a.router)
	invoice.NewHandlerGroup(a.services.Invoicing).Mount(a.router)
	client.NewHandlerGroup(a.services.Clients).Mount(a.router)
	task.NewHandlerGroup(a.services.Tasks).Mount(a.router)

	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("app/static/"))))
}
