package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/api"
	"github.com/Tiliavir/timeclock/internal/live"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API, live websocket feed and Prometheus metrics",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: listen_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.ListenAddr
	}
	log := a.log.Logger
	sess := a.sess

	metrics := observability.NewMetrics(func() model.Metrics { return sess.Metrics(sess.Now()) })

	var srv *api.Server
	hub := live.NewHub(live.Config{
		Interval: time.Duration(a.cfg.RefreshInterval),
		Snapshot: func() any { return srv.BuildSnapshot(sess.Now()) },
		Tick: func(now time.Time) bool {
			did, err := sess.Rollover(now)
			if err != nil {
				log.Warn("rollover not persisted", slog.Any("err", err))
			}
			return did || sess.IsWorking()
		},
		Logger: log,
	})
	srv = api.NewServer(sess, metrics, hub, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stderr, srv.Router())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", addr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			fmt.Fprintln(os.Stderr, err)
			a.close()
			os.Exit(2)
		}
	case <-ctx.Done():
		log.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	log.Info("bye")
	return nil
}
