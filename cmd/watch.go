package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/session"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the status on screen, refreshing while clocked in",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (default: refresh_interval from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	interval := watchInterval
	if interval <= 0 {
		interval = time.Duration(a.cfg.RefreshInterval)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, cmd.OutOrStdout(), a, interval)
}

// watch redraws the status on every tick while clocked in and rolls the log
// over when midnight passes. Each tick reloads state so punches made by other
// tc invocations show up.
func watch(ctx context.Context, w io.Writer, a *app, interval time.Duration) error {
	lang := a.lang()
	sess := a.sess
	draw := func(now time.Time) {
		renderStatus(w, lang, sess.Metrics(now), sess.NextDirection(), sess.WorkdayLength())
	}
	draw(sess.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	midnight := time.NewTimer(time.Until(timecalc.Midnight(sess.Now())))
	defer midnight.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sess = session.Open(a.store,
				session.WithLogger(a.log.Logger),
				session.WithDefaultWorkday(a.cfg.DefaultWorkdayHours),
			)
			if sess.IsWorking() {
				fmt.Fprintln(w)
				draw(sess.Now())
			}
		case <-midnight.C:
			now := sess.Now()
			did, err := sess.Rollover(now)
			if err != nil {
				a.log.Warn("rollover not persisted", "error", err)
			}
			if did {
				fmt.Fprintln(w, i18n.T(lang, i18n.MsgRollover))
				draw(now)
			}
			midnight.Reset(time.Until(timecalc.Midnight(now)))
		}
	}
}
