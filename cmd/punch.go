package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/export"
	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/model"
)

var inCmd = &cobra.Command{
	Use:   "in [HH:MM]",
	Short: "Clock in (now, or at the given time today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPunch(model.In),
}

var outCmd = &cobra.Command{
	Use:   "out [HH:MM]",
	Short: "Clock out (now, or at the given time today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPunch(model.Out),
}

func runPunch(dir model.Direction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := openApp()
		defer a.close()

		now := a.sess.Now()
		timeOfDay := now.Format("15:04")
		if len(args) == 1 {
			timeOfDay = args[0]
		}

		if err := a.sess.SubmitEvent(timeOfDay, dir); err != nil {
			a.exit(err)
		}

		lang := a.lang()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s %s\n", i18n.T(lang, i18n.MsgRecorded), export.DirectionLabel(lang, dir), timeOfDay)
		renderStatus(out, lang, a.sess.Metrics(now), a.sess.NextDirection(), a.sess.WorkdayLength())
		return nil
	}
}
