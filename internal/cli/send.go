package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/notify"
)

var errEventsClosed = errors.New("signal stream ended")

type sendOptions struct {
	app     string
	replace uint32
	icon    string
	timeout int32
	urgency string
	actions []string
	hints   []string
	wait    bool
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send SUMMARY [BODY]",
		Short: "Send a notification and print its id",
		Example: `  notifyd send "Build done" "all tests passed"
  notifyd send -u critical -t 0 "Disk full"
  notifyd send --action open=Open --wait "New mail"
  notifyd send --hint category=email --hint bool:resident=true "Chat"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := opts.notification(args)
			if err != nil {
				return err
			}
			return send(cmd.Context(), cmd.OutOrStdout(), n, opts.wait)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.app, "app", "a", "notifyd", "Application name")
	f.Uint32VarP(&opts.replace, "replace", "r", 0, "Id of the notification to replace")
	f.StringVarP(&opts.icon, "icon", "i", "", "Icon name or path")
	f.Int32VarP(&opts.timeout, "timeout", "t", -1, "Expiration in milliseconds (-1 server default, 0 never)")
	f.StringVarP(&opts.urgency, "urgency", "u", "normal", "Urgency: low, normal or critical")
	f.StringArrayVarP(&opts.actions, "action", "A", nil, "Action as KEY=LABEL (repeatable)")
	f.StringArrayVar(&opts.hints, "hint", nil, "Hint as [TYPE:]NAME=VALUE, TYPE is int, byte, bool or string (repeatable)")
	f.BoolVarP(&opts.wait, "wait", "w", false, "Wait until the notification closes and print actions invoked on it")
	return cmd
}

func (o *sendOptions) notification(args []string) (notify.Notification, error) {
	urgency, err := parseUrgency(o.urgency)
	if err != nil {
		return notify.Notification{}, err
	}
	actions, err := parseActions(o.actions)
	if err != nil {
		return notify.Notification{}, err
	}
	hints, err := parseHints(o.hints)
	if err != nil {
		return notify.Notification{}, err
	}
	n := notify.Notification{
		AppName:    o.app,
		Title:      args[0],
		Icon:       o.icon,
		Timeout:    o.timeout,
		ReplacesID: o.replace,
		Urgency:    urgency,
		Actions:    actions,
		Hints:      hints,
	}
	if len(args) > 1 {
		n.Body = args[1]
	}
	return n, nil
}

func send(ctx context.Context, out io.Writer, n notify.Notification, wait bool) error {
	client, err := notify.New()
	if err != nil {
		return errmsg.Wrap(errmsg.OpNotifySend, err)
	}
	defer func() { _ = client.Disconnect() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe before sending so that a fast close is not missed.
	var events <-chan notify.Event
	if wait {
		if events, err = client.Events(ctx); err != nil {
			return errmsg.Wrap(errmsg.OpNotifyWait, err)
		}
	}

	id, err := client.Notify(n)
	if err != nil {
		return errmsg.Wrap(errmsg.OpNotifySend, err)
	}
	fmt.Fprintln(out, id)
	if !wait {
		return nil
	}
	return waitClosed(ctx, out, events, id)
}

// waitClosed prints the signals about id until it is closed.
func waitClosed(ctx context.Context, out io.Writer, events <-chan notify.Event, id uint32) error {
	for {
		select {
		case <-ctx.Done():
			return errmsg.Wrap(errmsg.OpNotifyWait, ctx.Err())
		case ev, ok := <-events:
			if !ok {
				return errmsg.Wrap(errmsg.OpNotifyWait, errEventsClosed)
			}
			if ev.ID != id {
				continue
			}
			if !ev.Closed() {
				fmt.Fprintf(out, "action %s\n", ev.Action)
				continue
			}
			fmt.Fprintf(out, "closed %s\n", engine.CloseReason(ev.Reason).Normalize())
			return nil
		}
	}
}
