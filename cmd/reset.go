package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/i18n"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear today's clock events",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	if err := a.sess.ResetDay(); err != nil {
		a.exit(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(a.lang(), i18n.MsgReset))
	return nil
}
