// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"log/slog"

	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/logging"
	"github.com/declolabs/cli/internal/mcpserver"
	"github.com/declolabs/cli/internal/session"
	"github.com/spf13/cobra"
)

func newMCPCmd(emitters emit.Register) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve shapes over the Model Context Protocol",
		Long: `Start a Model Context Protocol server on stdin/stdout.

Exposes the project's shapes to MCP clients through three tools:
list_shapes, get_schema, and validate_value. Logs go to stderr so
stdout stays clean for the protocol.`,
		Example: `  # Start the MCP server (typically launched by an MCP client)
  declo mcp`,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}

			srv, err := mcpserver.New(ctx.Doc, emitters, logging.New(slog.LevelInfo))
			if err != nil {
				return err
			}
			return srv.ServeStdio()
		},
	}

	return cmd
}
