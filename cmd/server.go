package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fleet-dashboard/internal/api"
	"fleet-dashboard/internal/export"
	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/metrics"
)

// serverCmd starts the REST API server
func serverCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownMetrics, err := metrics.Init(ctx, cfg.Metrics)
			switch {
			case errors.Is(err, metrics.ErrDisabled):
				logger.Debug().Msg("metrics exporter disabled")
			case err != nil:
				return err
			default:
				defer func() {
					flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := shutdownMetrics(flushCtx); err != nil {
						logger.Warn().Err(err).Msg("metrics shutdown failed")
					}
				}()
			}

			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			format, err := export.ParseFormat(cfg.Reports.ExportFormat)
			if err != nil {
				return err
			}

			catalog := newCatalog(ds)
			server := api.NewServer(database, ds, catalog, api.Config{
				WebDir:          cfg.Server.WebDir,
				PageSize:        cfg.Reports.PageSize,
				PageSizeOptions: cfg.Reports.PageSizeOptions,
				PeriodDays:      cfg.Reports.PeriodDays,
				ExportFormat:    format,
			})

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      server.Router(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			fmt.Println(titleStyle.Render("Fleet Dashboard API Server"))
			fmt.Printf("   Listening on http://localhost%s\n", cfg.Server.Addr)
			fmt.Printf("   Database: %s\n", cfg.Database.Path)
			fmt.Printf("   Vehicles: %d, reports: %d\n\n", len(ds.Vehicles), len(catalog.Reports()))

			errc := make(chan error, 1)
			go func() {
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")
	return cmd
}
