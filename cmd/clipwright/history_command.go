package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipwright/internal/api"
	"clipwright/internal/jobs"
	"clipwright/internal/render"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var statusFlags []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded render attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var items []*jobs.Job
			if sessionID != "" {
				items, err = store.ListBySession(cmd.Context(), sessionID)
			} else {
				statuses := make([]jobs.Status, 0, len(statusFlags))
				for _, raw := range statusFlags {
					status, ok := jobs.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}
				items, err = store.List(cmd.Context(), statuses...)
			}
			if err != nil {
				return err
			}

			if asJSON {
				out := make([]api.RenderJob, 0, len(items))
				for _, job := range items {
					out = append(out, api.FromJob(job))
				}
				return writeJSON(cmd, out)
			}

			stdout := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(stdout, "No renders recorded")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, job := range items {
				result := job.ResultURL
				if job.ArtifactPath != "" {
					result = job.ArtifactPath
				}
				if job.ErrorMessage != "" {
					result = job.ErrorMessage
				}
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					shortID(job.SessionID),
					string(job.Status),
					job.RemoteID,
					job.UpdatedAt.Local().Format(time.DateTime),
					result,
				})
			}
			fmt.Fprint(stdout, renderTable(
				[]string{"ID", "Session", "Status", "Remote ID", "Updated", "Result"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Only list renders of one session")
	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the history as JSON")
	return cmd
}

func newRenderStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render-status <remote-id>",
		Short: "Query the render service for one job",
		Long: "Query the render service for one job and show the matching local\n" +
			"history row when this machine submitted it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remoteID := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()

			local := lookupLocalJob(cmd, ctx, remoteID)
			settings := ctx.configValue().GetRender()
			client, err := render.NewClient(render.ClientConfig{
				BaseURL:         settings.BaseURL,
				APIKey:          settings.APIKey,
				RequestTimeout:  settings.RequestTimeout,
				DownloadTimeout: settings.DownloadTimeout,
			})
			if err == nil {
				var status render.StatusResponse
				status, err = client.Status(cmd.Context(), remoteID)
				if err == nil {
					fmt.Fprintf(out, "ID:     %s\n", status.ID)
					fmt.Fprintf(out, "Status: %s\n", status.Status)
					if status.URL != "" {
						fmt.Fprintf(out, "URL:    %s\n", status.URL)
					}
					if status.Error != "" {
						fmt.Fprintf(out, "Error:  %s\n", status.Error)
					}
				}
			}

			if local == nil {
				fmt.Fprintln(out, "Local:  not in render history")
			} else {
				fmt.Fprintf(out, "Local:  job %d, session %s, %s (updated %s)\n",
					local.ID, shortID(local.SessionID), local.Status, local.UpdatedAt.Local().Format(time.DateTime))
				if local.ArtifactPath != "" {
					fmt.Fprintf(out, "File:   %s\n", local.ArtifactPath)
				}
				if local.ErrorMessage != "" {
					fmt.Fprintf(out, "Note:   %s\n", local.ErrorMessage)
				}
			}
			return err
		},
	}
}

// lookupLocalJob returns the history row for remoteID. History is
// informational, so an unreadable store yields nil.
func lookupLocalJob(cmd *cobra.Command, ctx *commandContext, remoteID string) *jobs.Job {
	store, err := ctx.openStore()
	if err != nil {
		return nil
	}
	defer store.Close()
	job, err := store.FindByRemoteID(cmd.Context(), remoteID)
	if err != nil {
		return nil
	}
	return job
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
