// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"

	"github.com/declolabs/cli/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	short := false

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the declo CLI version",
		Example: `  # Show full version information
  declo version

  # Show just the version number
  declo version --short`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(version.Short())
				return
			}
			fmt.Println(version.Info())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
