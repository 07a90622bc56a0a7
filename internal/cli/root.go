// Package cli wires the hostel command line: the HTTP server and the
// maintenance commands share one config file and database.
package cli

import (
	"fmt"
	"os"
	"time"

	"hostel-admin/internal/config"
	"hostel-admin/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hostel",
		Short:         "Hostel administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")

	root.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		SeedCmd(),
		AdminCmd(),
		FeesCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB loads the config and opens a migrated database.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Setup(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// clock returns the wall clock in app.timezone, or the local clock when unset.
func clock(app config.AppSubConfig) (func() time.Time, error) {
	if app.Timezone == "" {
		return time.Now, nil
	}
	loc, err := time.LoadLocation(app.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", app.Timezone, err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
