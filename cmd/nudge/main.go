// Nudge is a cron-driven mailer that sends a small throwaway message so a
// polling mail provider fetches from the upstream mailbox more often.
//
// Typically run every few minutes from cron:
//
//	*/5 * * * *  /usr/local/bin/nudge >> /var/log/nudge.log 2>&1
//
// Set up a filter at the provider to delete the messages on arrival.
// Running without arguments sends one nudge. See 'nudge --help' for the
// setup wizard and available flags.
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
	Use:   "nudge",
	Short: "Periodic mail nudge for polling mail providers",
	Long: `Send a small throwaway email so a polling mail provider checks the
upstream mailbox more often than its default schedule.

Account settings come from a key/value config file; run 'nudge setup' to
create one interactively.`,
	Version: version.Version,
	RunE:    runSend,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nudge %s\n", version.Full())
	},
}
