package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/llehouerou/notifyd/internal/config"
	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/history"
)

const summaryWidth = 48

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently closed notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.config)
			if err != nil {
				return errmsg.Wrap(errmsg.OpConfigLoad, err)
			}
			path, err := cfg.GetHistoryPath()
			if err != nil {
				return errmsg.Wrap(errmsg.OpHistoryOpen, err)
			}
			store, err := history.Open(path)
			if err != nil {
				return errmsg.Wrap(errmsg.OpHistoryOpen, err)
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return errmsg.Wrap(errmsg.OpHistoryRead, err)
			}
			printHistory(cmd.OutOrStdout(), entries, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}

func printHistory(w io.Writer, entries []history.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No closed notifications")
		return
	}
	for _, e := range entries {
		summary := runewidth.Truncate(e.Summary, summaryWidth, "...")
		outcome := e.Reason.String()
		if e.Action != "" {
			outcome += " after " + e.Action
		}
		fmt.Fprintf(w, "%-16s %-6d %-12s %s %s (open %s)\n",
			humanize.RelTime(e.ClosedAt, now, "ago", "from now"),
			e.NoteID,
			strings.TrimSpace(e.AppName),
			runewidth.FillRight(summary, summaryWidth),
			outcome,
			e.ClosedAt.Sub(e.ShownAt).Round(time.Second),
		)
	}
}
