package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsmith/scriptkit/internal/config"
	"github.com/opsmith/scriptkit/internal/logging"
	"github.com/opsmith/scriptkit/internal/notify"
	"github.com/opsmith/scriptkit/internal/setup"
)

// sendTimeout bounds one SMTP conversation.
const sendTimeout = 60 * time.Second

var (
	cfgFile    string
	logLevel   string
	logFile    string
	toSpec     string
	subject    string
	body       string
	setupForce bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "nudge.cfg", "Config file (relative paths resolve against the executable directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error, critical)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log destination file (default console; overrides the config LogFile key)")

	rootCmd.Flags().StringVar(&toSpec, "to", "EmailTo", "Recipient: an address list or a config key naming one")
	rootCmd.Flags().StringVar(&subject, "subject", "", "Message subject (default: NudgeSubject config key)")
	rootCmd.Flags().StringVar(&body, "body", "", "Message body (default: NudgeBody config key)")

	setupCmd.Flags().BoolVar(&setupForce, "force", false, "Overwrite an existing config file")
}

// baseDir is the directory relative paths resolve against: the executable's
// location, not the invoking shell's working directory, so cron behaves the
// same as an interactive run.
func baseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func runSend(cmd *cobra.Command, args []string) error {
	ctl, err := logging.New(logLevel, logFile)
	if err != nil {
		return err
	}
	defer ctl.Sync()

	store := config.New(baseDir(), ctl)
	if _, err := store.Load(cfgFile, config.LoadOptions{
		LogLevel:    logLevel,
		LogFile:     logFile,
		LogFileWins: logFile != "",
	}); err != nil {
		return err
	}

	subj := subject
	if subj == "" {
		subj, _ = store.GetString("NudgeSubject")
		if subj == "" {
			subj = "Nudge"
		}
	}
	text := body
	if text == "" {
		text, _ = store.GetString("NudgeBody")
		if text == "" {
			text = "gobbledygook"
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	mailer := notify.New(store)
	if err := mailer.Email(ctx, notify.Message{
		Subject: subj,
		Body:    text,
		To:      toSpec,
	}); err != nil {
		return err
	}

	ctl.Info("nudge message sent")
	return nil
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create a config file interactively",
	Long: `Launch an interactive form that asks for the mail account settings and
writes the config file both nudge and wanwatch read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir(), path)
		}
		return setup.Run(path, setupForce)
	},
}
