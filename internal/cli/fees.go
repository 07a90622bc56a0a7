package cli

import (
	"fmt"

	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/spf13/cobra"
)

func FeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Fee maintenance",
	}
	cmd.AddCommand(feesRefreshCmd())
	return cmd
}

func feesRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the stored fee_status of every student for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			if month != "" {
				if err := util.ValidateMonth(month); err != nil {
					return fmt.Errorf("invalid --month %q: %w", month, err)
				}
			}

			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			now, err := clock(cfg.App)
			if err != nil {
				return err
			}
			svc := service.New(db, service.Options{PageSize: cfg.App.PageSize, Now: now})
			if month == "" {
				month = util.MonthKey(svc.Today())
			}
			start, err := util.ParseMonth(month)
			if err != nil {
				return err
			}
			changed, err := svc.Fees.RefreshStatuses(cmd.Context(), start)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed fee status for %s: %d student(s) changed.\n", month, changed)
			return nil
		},
	}
	cmd.Flags().String("month", "", "month to reconcile, YYYY-MM (default current month)")
	return cmd
}
