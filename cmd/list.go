package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/export"
	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's clock events",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	now := a.sess.Now()
	printList(cmd.OutOrStdout(), a.lang(), a.sess.Events(), a.sess.Metrics(now))
	return nil
}

// printList prints the events in recorded order, each Out with the length of
// the interval it closes, followed by the day's total.
func printList(w io.Writer, lang string, events []model.ClockEvent, m model.Metrics) {
	if len(events) == 0 {
		fmt.Fprintln(w, i18n.T(lang, i18n.MsgNoTimestamps))
		return
	}

	fmt.Fprintf(w, "%s\n", i18n.T(lang, i18n.MsgTimestamps))
	var (
		currentDay string
		openedAt   time.Time
	)
	for _, e := range events {
		day := "????-??-??"
		if e.Valid() {
			day = e.Timestamp.Format("2006-01-02")
		}
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		dur := ""
		switch {
		case e.Direction == model.In:
			openedAt = e.Timestamp
		case !openedAt.IsZero() && e.Valid() && !e.Timestamp.Before(openedAt):
			dur = fmt.Sprintf(" (%s)", timecalc.FormatDuration(int64(e.Timestamp.Sub(openedAt).Seconds())))
			openedAt = time.Time{}
		default:
			openedAt = time.Time{}
		}
		fmt.Fprintf(w, "  %s  %s%s\n", timecalc.FormatClock(e.Timestamp), export.DirectionLabel(lang, e.Direction), dur)
	}
	fmt.Fprintf(w, "%s: %s\n", i18n.T(lang, i18n.MsgTotal), timecalc.FormatHoursMinutes(m.TotalWorked))
}
