// Wanwatch checks the WAN IP address and sends an email plus a text-style
// notification when it has changed since the last run.
//
// Intended to be run hourly from cron:
//
//	01 * * * *  /usr/local/bin/wanwatch >> /var/log/wanwatch.log 2>&1
//
// The last observed address is kept in a small state file; a lock file
// guards the check so overlapping cron runs do not race on it. See
// 'wanwatch --help' for available flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsmith/scriptkit/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wanwatch",
	Short: "WAN-IP-change notifier",
	Long: `Fetch the current public IP address, compare it with the address saved
from the previous run, and send an email and text notification when it
changed.

Account settings come from the same key/value config file the nudge tool
uses; run 'nudge setup' to create one.`,
	Version: version.Version,
	RunE:    runCheck,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wanwatch %s\n", version.Full())
	},
}
