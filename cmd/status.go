package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/export"
	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

const barWidth = 30

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show worked time, remaining time and projected stop time",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	now := a.sess.Now()
	renderStatus(cmd.OutOrStdout(), a.lang(), a.sess.Metrics(now), a.sess.NextDirection(), a.sess.WorkdayLength())
	return nil
}

// renderStatus prints the dashboard: total, both progress bars, stop time
// and the direction the next punch will take.
func renderStatus(w io.Writer, lang string, m model.Metrics, next model.Direction, workdayHours float64) {
	state := i18n.T(lang, i18n.MsgNotWorking)
	if m.IsWorking {
		state = i18n.T(lang, i18n.MsgWorking)
	}
	fmt.Fprintf(w, "%s\n", state)
	fmt.Fprintf(w, "  %s: %s (%s)\n", i18n.T(lang, i18n.MsgTotal),
		timecalc.FormatHoursMinutes(m.TotalWorked), timecalc.FormatDurationHHMMSS(m.TotalWorkedSeconds()))
	fmt.Fprintf(w, "  %s: %s %3d%%\n", i18n.T(lang, i18n.MsgProgress), progressBar(m.ProgressPercent, barWidth), m.ProgressPercent)
	if m.IsWorking {
		fmt.Fprintf(w, "  %s: %s %3d%% (%s)\n", i18n.T(lang, i18n.MsgRemaining),
			progressBar(m.RemainingPercent, barWidth), m.RemainingPercent, timecalc.FormatHoursMinutes(m.Remaining))
	}
	if m.ProjectedStop != nil {
		fmt.Fprintf(w, "  %s: %s\n", i18n.T(lang, i18n.MsgStopAt), timecalc.FormatClock(*m.ProjectedStop))
	}
	fmt.Fprintf(w, "  %s: %s\n", i18n.T(lang, i18n.MsgWorkdayLength), timecalc.FormatWorkdayLength(workdayHours))
	fmt.Fprintf(w, "  %s: %s\n", i18n.T(lang, i18n.MsgNext), export.DirectionLabel(lang, next))
}

// progressBar renders percent (0–100) as a fixed-width bar.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
