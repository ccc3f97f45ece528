// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/declolabs/cli/internal/session"
	"github.com/spf13/cobra"
)

func newShapesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all declared shapes",
		Long: `List all shapes declared in the project document.
Displays shape names, field counts, constraint counts, and descriptions.`,
		Example: `  # List shapes
  declo shapes list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runShapesList(ctx)
		},
	}

	return cmd
}

func runShapesList(ctx *session.Context) error {
	if len(ctx.Doc.Shapes) == 0 {
		fmt.Println("No shapes declared.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tFIELDS\tCONSTRAINTS\tDESCRIPTION")

	for i := range ctx.Doc.Shapes {
		shape := &ctx.Doc.Shapes[i]

		constraints := 0
		for j := range shape.Fields {
			if !shape.Fields[j].Constraints.Empty() {
				constraints++
			}
		}

		desc := shape.Description
		if utf8.RuneCountInString(desc) > 40 {
			desc = string([]rune(desc)[:37]) + "..."
		}
		if desc == "" {
			desc = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", shape.Name, len(shape.Fields), constraints, desc)
	}

	return w.Flush()
}
