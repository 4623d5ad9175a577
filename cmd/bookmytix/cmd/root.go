// Package cmd provides the CLI commands for the BookMyTix admin service.
package cmd

import (
	"fmt"

	"github.com/bookmytix/admin-core/internal/buildinfo"
	"github.com/bookmytix/admin-core/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bookmytix",
	Short: "BookMyTix admin backend",
	Long: `bookmytix serves the admin dashboard API: flight pricing rules,
markup quotes, the support chat simulation and admin preferences.

Examples:
  bookmytix migrate --seed
  bookmytix admin create --username root --super
  bookmytix serve --config config.yaml
  bookmytix quote --airline "Garuda Indonesia" --origin CGK --destination DPS --price 1500000 --demo`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $BOOKMYTIX_CONFIG or config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(versionCmd)
}

func appConfig() config.AppConfig {
	return config.AppConfig{ConfigPath: cfgFile}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bookmytix %s (commit %s, built %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
	},
}
