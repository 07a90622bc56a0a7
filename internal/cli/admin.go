package cli

import (
	"errors"
	"fmt"

	"hostel-admin/internal/database"

	"github.com/spf13/cobra"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(adminCreateCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")

			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}

			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			admin, err := database.CreateAdmin(db, username, password, name, email, cfg.Security.BcryptCost)
			if errors.Is(err, database.ErrAdminExists) {
				return fmt.Errorf("admin %q or its email already exists", username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q (id %d).\n", admin.Username, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringP("username", "u", "", "login name")
	cmd.Flags().StringP("password", "p", "", "password, at least 8 characters")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
