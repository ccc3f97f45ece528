// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/session"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command for the CLI.
// Emitters holds the target formats available to emit, shapes
// describe, and the MCP server.
func NewRootCmd(emitters emit.Register) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "declo",
		Short:         "Declare shapes, validate values, emit schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newVetCmd(),
		newValidateCmd(),
		newEmitCmd(emitters),
		newImportCmd(),
		newShapesCmd(emitters),
		newServeCmd(),
		newMCPCmd(emitters),
		newVersionCmd(),
	)

	return rootCmd
}

func newShapesCmd(emitters emit.Register) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "shapes",
		Short:             "Manage shape declarations",
		PersistentPreRunE: session.PreRunLoad,
	}

	cmd.AddCommand(
		newShapesListCmd(),
		newShapesDescribeCmd(emitters),
		newShapesAddCmd(),
		newShapesRemoveCmd(),
	)

	return cmd
}
