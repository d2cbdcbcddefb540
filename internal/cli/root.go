// Package cli is the notifyd command line: the daemon itself and a small
// client for any org.freedesktop.Notifications server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type rootOptions struct {
	verbose bool
	config  string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "notifyd",
		Short: "A desktop notification daemon",
		Long: `notifyd implements org.freedesktop.Notifications on the session bus.
It shows notifications in a terminal or logs them, expires them on time,
relays actions back to the sending application and keeps a history of
closed notifications.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "Configuration file (default: search XDG config and working directory)")

	root.AddCommand(
		newRunCmd(opts),
		newSendCmd(),
		newCloseCmd(),
		newInfoCmd(),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "notifyd: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of notifyd",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notifyd version %s\n", Version)
		},
	}
}
