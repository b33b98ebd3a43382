package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"clipwright/internal/logging"
	"clipwright/internal/mcpserver"
	"clipwright/internal/session"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve one editing session as MCP tools over stdio",
		Long: `Expose one project as Model Context Protocol tools over stdin/stdout:
one tool per edit domain, plus render_video, list_commands, and
project_snapshot. Logs go to the CLI log file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			s, cleanup, err := ctx.newSession(name)
			if err != nil {
				return err
			}
			defer cleanup()

			logger, err := ctx.cliLogger()
			if err != nil {
				return err
			}
			logger.Info("mcp server starting",
				logging.EventType("mcp_started"),
				logging.String(logging.FieldSessionID, s.ID()),
			)
			server := mcpserver.New(s, cfg.MCP.ServerName, version, logger)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", session.DefaultName, "Project name, also the rendered file name")
	return cmd
}
