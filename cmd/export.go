package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export today's clock events",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Write to this file instead of stdout (required for xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	if exportFormat == "xlsx" && exportOutput == "" {
		fmt.Fprintln(os.Stderr, "xlsx export needs --output")
		a.close()
		os.Exit(1)
	}

	now := a.sess.Now()
	day := export.Day{
		Date:         now,
		Events:       a.sess.Events(),
		Metrics:      a.sess.Metrics(now),
		WorkdayHours: a.sess.WorkdayLength(),
	}

	if exportOutput == "" {
		if err := export.Write(cmd.OutOrStdout(), exportFormat, a.lang(), day); err != nil {
			fmt.Fprintln(os.Stderr, err)
			a.close()
			os.Exit(1)
		}
		return nil
	}

	if err := exportToFile(exportOutput, exportFormat, a.lang(), day); err != nil {
		fmt.Fprintln(os.Stderr, err)
		a.close()
		os.Exit(2)
	}
	return nil
}

// exportToFile writes day to path. On failure the partial file is removed.
func exportToFile(path, format, lang string, day export.Day) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	werr := export.Write(f, format, lang, day)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	return nil
}
