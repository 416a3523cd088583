package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sales_messages/api"
	"sales_messages/internal/listener"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Listen for messages over TCP and serve the query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app, err := wireApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = app.logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}
}

// serve runs the TCP listener and, when enabled, the HTTP API until ctx is done.
func (a *app) serve(ctx context.Context) error {
	a.logger.Info("service starting",
		zap.String("tcp_addr", a.cfg.TCP.Addr),
		zap.Bool("http_enabled", a.cfg.HTTP.Enabled),
		zap.Int("report_period", a.cfg.Report.Period),
		zap.Int("pause_ceiling", a.cfg.Report.PauseCeiling),
	)

	g, gctx := errgroup.WithContext(ctx)

	tcp := listener.New(a.cfg.TCP.Addr, a.service, a.logger.Named("tcp"))
	g.Go(func() error { return tcp.Serve(gctx) })

	if a.cfg.HTTP.Enabled {
		if !a.cfg.Log.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              a.cfg.HTTP.Addr,
			Handler:           api.NewRouter(a.service, a.metrics.Handler(), a.logger.Named("http")),
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return gctx },
		}
		g.Go(func() error {
			a.logger.Info("http listen", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	a.logger.Info("service stopped",
		zap.Int("message_count", a.service.MessageCount()),
		zap.Int("adjustment_count", a.service.AdjustmentCount()),
	)
	return err
}
