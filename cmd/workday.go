package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

var workdayCmd = &cobra.Command{
	Use:   "workday [hours|hh:mm]",
	Short: "Show or set the workday length (e.g. 7.5 or 07:30)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkday,
}

func runWorkday(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	lang := a.lang()
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintf(out, "%s: %s\n", i18n.T(lang, i18n.MsgWorkdayLength), timecalc.FormatWorkdayLength(a.sess.WorkdayLength()))
		return nil
	}

	hours, err := timecalc.ParseWorkdayLength(args[0])
	if err != nil {
		a.exit(err)
	}
	if err := a.sess.SetWorkdayLength(hours); err != nil {
		a.exit(err)
	}
	fmt.Fprintln(out, i18n.T(lang, i18n.MsgSettingsSaved))
	fmt.Fprintf(out, "%s: %s\n", i18n.T(lang, i18n.MsgWorkdayLength), timecalc.FormatWorkdayLength(hours))
	return nil
}
