package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/service"
)

// Services bundles the application services the routes are built from.
type Services struct {
	Dashboard service.Dashboard
	Timesheet service.Timesheet
	Planning  service.Planning
	Invoicing service.Invoicing
	Clients   service.Clients
	Tasks     service.Tasks
}

type App struct {
	host string
	port int

	slog   *slog.Logger
	router chi.Router
	clock  clock.Clock

	services Services
}

func New(slog *slog.Logger, clk clock.Clock, services Services) *App {
	app := &App{
		host: "localhost",
		port: 3000,

		router: chi.NewRouter(),
		slog:   slog,
		clock:  clk,

		services: services,
	}

	app.RegisterRoutes()

	return app
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

func (a *App) Serve() error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.router,

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	a.slog.Info("server started listening", "addr", addr)

	return server.ListenAndServe()
}
