// Package cli wires the cobra commands for the meestercrm binary.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vjamst/meestercrm/app"
	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/config"
	"github.com/vjamst/meestercrm/internal/service"
	"github.com/vjamst/meestercrm/internal/store"
	"github.com/vjamst/meestercrm/pkg/resend"
	"github.com/vjamst/meestercrm/pkg/supabase"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meestercrm",
		Short: "Client relations, time tracking and invoicing for freelancers.",

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())

	return cmd
}

func newServeCommand() *cobra.Command {
	var (
		host       string
		port       uint
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MeesterCRM web server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if host == "" {
				host = cfg.Host
			}
			if port == 0 {
				port = cfg.Port
			}

			clk := clock.System{}
			st := store.New(supabase.New(cfg.SupabaseURL, cfg.SupabaseKey))
			mailer := resend.New(cfg.ResendAPIKey)

			services := app.Services{
				Dashboard: service.NewDashboard(st, clk),
				Timesheet: service.NewTimesheet(st, clk),
				Planning:  service.NewPlanning(st, clk),
				Invoicing: service.NewInvoicing(st, mailer, clk, cfg.FromEmail),
				Clients:   service.NewClients(st, clk),
				Tasks:     service.NewTasks(st),
			}

			return app.New(slog.Default(), clk, services).
				WithHost(host).
				WithPort(port).
				Serve()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to listen on")
	cmd.Flags().UintVar(&port, "port", 0, "port to listen on")
	cmd.Flags().StringVar(&configPath, "config", "meestercrm.yaml", "path to the config file")

	return cmd
}
