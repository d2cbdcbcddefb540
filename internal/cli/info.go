package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/notify"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show which notification server is running and what it supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := notify.New()
			if err != nil {
				return errmsg.Wrap(errmsg.OpServerQuery, err)
			}
			defer func() { _ = client.Disconnect() }()

			info, err := client.ServerInformation()
			if err != nil {
				return errmsg.Wrap(errmsg.OpServerQuery, err)
			}
			caps, err := client.Capabilities()
			if err != nil {
				return errmsg.Wrap(errmsg.OpServerQuery, err)
			}
			printInfo(cmd.OutOrStdout(), info, caps)
			return nil
		},
	}
}

func printInfo(w io.Writer, info notify.ServerInfo, caps []string) {
	fmt.Fprintf(w, "Name:         %s\n", info.Name)
	fmt.Fprintf(w, "Vendor:       %s\n", info.Vendor)
	fmt.Fprintf(w, "Version:      %s\n", info.Version)
	fmt.Fprintf(w, "Spec version: %s\n", info.SpecVersion)
	fmt.Fprintf(w, "Capabilities: %s\n", strings.Join(caps, ", "))
}
