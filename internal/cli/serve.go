package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostel-admin/internal/cache"
	"hostel-admin/internal/database"
	"hostel-admin/internal/logging"
	"hostel-admin/internal/metrics"
	"hostel-admin/internal/router"
	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			log, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.JWT.Secret == "" {
				secret, err := util.RandomString(48)
				if err != nil {
					return err
				}
				cfg.JWT.Secret = secret
				log.Warn("jwt.secret is not set, using a random secret; tokens are invalidated on restart")
			}
			if cfg.Security.EncryptionKey == "" {
				log.Warn("security.encryption_key is not set; audit fields are stored in plain text")
			}

			created, err := database.EnsureAdmin(db, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Name, cfg.Admin.Email, cfg.Security.BcryptCost)
			if err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}
			if created {
				log.Info("bootstrap admin created", zap.String("username", cfg.Admin.Username))
			}

			now, err := clock(cfg.App)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, closeCache, err := cache.New(ctx, cfg.Redis)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer func() { _ = closeCache() }()

			m := metrics.New()
			svc := service.New(db, service.Options{
				Logger:              log,
				Metrics:             m,
				Cache:               store,
				CacheTTL:            cfg.Redis.TTL(),
				PageSize:            cfg.App.PageSize,
				RecordSalaryExpense: cfg.Salary.RecordExpense,
				Now:                 now,
			})

			r := router.SetupRouter(router.Deps{
				Config:   cfg,
				DB:       db,
				Services: svc,
				Cache:    store,
				Log:      log,
				Metrics:  m,
			})

			addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server listening", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("run server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
