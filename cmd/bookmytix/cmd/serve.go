package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bookmytix/admin-core/internal/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API server",
	Long: `Run the admin API server.

Migrates the database, loads runtime settings, starts the chat event hub
and serves HTTP until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.RunServer(ctx, appConfig())
	},
}
