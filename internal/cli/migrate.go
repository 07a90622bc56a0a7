package cli

import (
	"fmt"
	"time"

	"hostel-admin/internal/database"

	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema, seed rooms and recount occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			created, err := database.EnsureAdmin(db, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Name, cfg.Admin.Email, cfg.Security.BcryptCost)
			if err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema migrated, rooms seeded, occupancy reconciled.")
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q.\n", cfg.Admin.Username)
			}
			return nil
		},
	}
}

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the fixed rooms and optionally the default staff",
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, _ := cmd.Flags().GetBool("staff")

			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			fmt.Fprintf(cmd.OutOrStdout(), "Rooms %d-%d ready.\n", database.MinRoomID, database.MaxRoomID)
			if !staff {
				return nil
			}
			n, err := database.SeedEmployees(db, database.DefaultStaff, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("seed employees: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d employee(s).\n", n)
			return nil
		},
	}
	cmd.Flags().Bool("staff", false, "also create the default staff records")
	return cmd
}
