package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opsmith/scriptkit/internal/config"
	"github.com/opsmith/scriptkit/internal/lock"
	"github.com/opsmith/scriptkit/internal/logging"
	"github.com/opsmith/scriptkit/internal/notify"
	"github.com/opsmith/scriptkit/internal/wanip"
)

// lockName guards the state file against overlapping cron runs.
const lockName = "wanwatch.lock"

// checkTimeout bounds the whole check including the SMTP conversation.
const checkTimeout = 2 * time.Minute

var (
	cfgFile     string
	logLevel    string
	logFile     string
	probeURL    string
	stateFile   string
	lockTimeout time.Duration
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "wanwatch.cfg", "Config file (relative paths resolve against the executable directory)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error, critical)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log destination file (default console; overrides the config LogFile key)")
	rootCmd.Flags().StringVar(&probeURL, "url", "", "IP lookup service URL (default: WanIpURL config key, then "+wanip.DefaultURL+")")
	rootCmd.Flags().StringVar(&stateFile, "state", "", "State file path (default: WanIpFile config key, then wanip.yaml)")
	rootCmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 5*time.Second, "How long to wait for the run lock before skipping")
}

func baseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	locker := lock.New(ctl)
	switch st := locker.Acquire("wanwatch", lockName, lockTimeout); st {
	case lock.StatusAcquired:
		defer locker.Release(lockName)
	case lock.StatusTimeout:
		// Another run is mid-check; this one has nothing to add.
		ctl.Warn("run lock held by another wanwatch, skipping this check")
		return nil
	default:
		return fmt.Errorf("acquiring run lock: %s", st)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	url := probeURL
	if url == "" {
		url = fmt.Sprint(store.GetDefault("WanIpURL", ""))
	}
	current, err := wanip.NewClient(url).CurrentIP(ctx)
	if err != nil {
		return err
	}

	statePath := stateFile
	if statePath == "" {
		statePath = fmt.Sprint(store.GetDefault("WanIpFile", "wanip.yaml"))
	}
	if !filepath.IsAbs(statePath) {
		statePath = filepath.Join(baseDir(), statePath)
	}

	now := time.Now()
	state, err := wanip.LoadState(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		// First run: record the address, nothing to compare against yet.
		state = &wanip.State{ChangedAt: now}
		state.Update(current, now)
		if err := state.Save(statePath); err != nil {
			return err
		}
		ctl.Warn("created WAN IP state file",
			zap.String("path", statePath),
			zap.String("address", current),
		)
		return nil
	}

	if current == state.Address {
		state.Update(current, now)
		if err := state.Save(statePath); err != nil {
			return err
		}
		ctl.Info("WAN IP unchanged", zap.String("address", current))
		return nil
	}

	prior := state.Address
	subject := "NOTICE: WAN IP CHANGED"
	message := fmt.Sprintf("Prior WAN IP: <%s>. Current WAN IP: <%s>", prior, current)

	mailer := notify.New(store)
	if err := mailer.Notify(ctx, subject, message); err != nil {
		return err
	}
	if err := mailer.Email(ctx, notify.Message{
		Subject: subject,
		Body:    message,
		To:      "EmailTo",
	}); err != nil {
		return err
	}

	// State is updated only after both sends succeed, so a failed notify is
	// retried on the next cron run.
	state.Update(current, now)
	if err := state.Save(statePath); err != nil {
		return err
	}

	ctl.Warn("WAN IP changed",
		zap.String("prior", prior),
		zap.String("current", current),
	)
	return nil
}
