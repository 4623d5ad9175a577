package cmd

import (
	"fmt"

	"github.com/bookmytix/admin-core/internal/app"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
	adminSuper    bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an admin account.

When --password is omitted a random password is generated and printed once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		admin, password, err := app.CreateAdmin(cmd.Context(), appConfig(), app.CreateAdminParams{
			Username:   adminUsername,
			Password:   adminPassword,
			SuperAdmin: adminSuper,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "created admin %q (id %d, super admin: %t)\n", admin.Username, admin.ID, admin.IsSuperAdmin)
		if adminPassword == "" {
			fmt.Fprintf(out, "generated password: %s\n", password)
		}
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminUsername, "username", "", "login name (required)")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "password (generated when empty)")
	adminCreateCmd.Flags().BoolVar(&adminSuper, "super", false, "grant every permission")
	_ = adminCreateCmd.MarkFlagRequired("username")

	adminCmd.AddCommand(adminCreateCmd)
}
