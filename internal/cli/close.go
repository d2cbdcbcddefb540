package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/notify"
)

func newCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close ID",
		Short: "Close a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := notify.New()
			if err != nil {
				return errmsg.Wrap(errmsg.OpNotifyClose, err)
			}
			defer func() { _ = client.Disconnect() }()

			return errmsg.Wrap(errmsg.OpNotifyClose, client.Close(id))
		},
	}
}
