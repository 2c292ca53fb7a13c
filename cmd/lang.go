package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/i18n"
)

var langCmd = &cobra.Command{
	Use:   "lang [en|it]",
	Short: "Show or set the message language",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLang,
}

func runLang(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, a.sess.Language())
		return nil
	}
	if !i18n.Supported(args[0]) {
		fmt.Fprintf(os.Stderr, "unsupported language %q (want one of %s)\n", args[0], strings.Join(i18n.Languages(), ", "))
		a.close()
		os.Exit(1)
	}
	if err := a.sess.SetLanguage(args[0]); err != nil {
		a.exit(err)
	}
	fmt.Fprintln(out, i18n.T(a.sess.Language(), i18n.MsgSettingsSaved))
	return nil
}
