package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipwright/internal/logging"
	"clipwright/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		follow    bool
		sessionID string
		lines     int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show daemon log events",
		Long: `Show recent daemon log events from the HTTP API. When the daemon is not
reachable, the last lines of the daemon log file are printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			client, err := logs.NewStreamClient(cfg.API.Bind, cfg.API.Token)
			if err != nil {
				return err
			}
			query := logs.StreamQuery{Limit: lines, Session: sessionID}
			page, err := client.Fetch(cmd.Context(), query)
			if logs.IsAPIUnavailable(err) {
				path := filepath.Join(cfg.Paths.LogDir, "clipwright.log")
				fmt.Fprintf(out, "Daemon unreachable; showing %s\n", path)
				tail, tailErr := logs.LastLines(path, lines)
				if tailErr != nil {
					return tailErr
				}
				for _, line := range tail {
					fmt.Fprintln(out, line)
				}
				return nil
			}
			if err != nil {
				return err
			}
			for _, evt := range page.Events {
				printEvent(out, evt)
			}
			if !follow {
				return nil
			}
			query.Since = page.Next
			return client.Follow(cmd.Context(), query, time.Second, func(evt logging.Event) {
				printEvent(out, evt)
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new events")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Only show events of one session")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of recent events to show")
	return cmd
}

func printEvent(out io.Writer, evt logging.Event) {
	var b strings.Builder
	b.WriteString(evt.Timestamp.Local().Format(time.TimeOnly))
	b.WriteString(" ")
	b.WriteString(strings.ToUpper(evt.Level))
	if evt.Component != "" {
		b.WriteString(" [" + evt.Component + "]")
	}
	b.WriteString(" " + evt.Message)
	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, evt.Fields[k])
	}
	fmt.Fprintln(out, b.String())
}
