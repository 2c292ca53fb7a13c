package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeclock/internal/config"
	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/logging"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/session"
	"github.com/Tiliavir/timeclock/internal/storage"
)

var flagLang string

var rootCmd = &cobra.Command{
	Use:   "tc",
	Short: "tc – a minimal work clock",
	Long: `tc records when you clock in and out during the day and tells you how long
you have worked, how much of the workday is left and when you can stop.
All data is stored as human-readable JSON in ~/.timeclock/ (or $TIMECLOCK_HOME).`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Message language (en, it); defaults to the saved selection")

	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(workdayCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

// app is the state every command works on.
type app struct {
	base  string
	cfg   config.Config
	log   *logging.Logger
	store *storage.Store
	sess  *session.Session
}

// openApp loads config and state. Storage problems here are fatal (exit 2).
func openApp() *app {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.Load(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	store := storage.Open(base)
	sess := session.Open(store,
		session.WithLogger(logger.Logger),
		session.WithDefaultWorkday(cfg.DefaultWorkdayHours),
	)
	return &app{base: base, cfg: cfg, log: logger, store: store, sess: sess}
}

func (a *app) close() {
	_ = a.log.Close()
}

// lang is the --lang flag when given, the saved selection otherwise.
func (a *app) lang() string {
	if flagLang != "" {
		return i18n.Normalize(flagLang)
	}
	return a.sess.Language()
}

// exit prints the localised message for err and terminates the process:
// 2 for storage failures, 1 for rejected input.
func (a *app) exit(err error) {
	code := exitCode(err)
	if kind := model.ErrorKind(err); kind != "" {
		fmt.Fprintln(os.Stderr, i18n.T(a.lang(), kind))
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	a.close()
	os.Exit(code)
}

func exitCode(err error) int {
	if errors.Is(err, model.ErrPersistence) {
		return 2
	}
	return 1
}
