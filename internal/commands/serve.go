// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"log/slog"

	"github.com/declolabs/cli/internal/logging"
	"github.com/declolabs/cli/internal/server"
	"github.com/declolabs/cli/internal/session"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr    string
	verbose bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve shapes, schemas, and validation over HTTP",
		Long: `Start a development HTTP server exposing the project's shapes.

Endpoints:
  GET  /healthz                    liveness
  GET  /v1/shapes                  shape listing
  GET  /v1/shapes/{name}/schema    emitted JSON Schema
  POST /v1/shapes/{name}/validate  validate a JSON body
  GET  /metrics                    Prometheus metrics

Validators are compiled once at startup. The server drains in-flight
requests on SIGINT/SIGTERM before exiting.`,
		Example: `  # Serve on the default address
  declo serve

  # Serve on a specific address
  declo serve --addr :9000`,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			log := logging.New(level)

			srv, err := server.New(ctx.Doc, log)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8132", "Listen address")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
