// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"strings"

	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/session"
	"github.com/spf13/cobra"
)

func newShapesRemoveCmd() *cobra.Command {
	force := false

	cmd := &cobra.Command{
		Use:   "remove [SHAPE_NAME]",
		Short: "Remove a shape from the document",
		Long: `Remove a shape declaration from the document. If no shape name is
provided, an interactive selection prompt is shown.

Removing a shape that other shapes reference would leave the document
with dangling references, so it is refused.`,
		Example: `  # Interactive selection
  declo shapes remove

  # Remove a specific shape without confirmation
  declo shapes remove Order --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}

			var shapeName string
			if len(args) > 0 {
				shapeName = args[0]
			} else {
				if len(ctx.Doc.Shapes) == 0 {
					return fmt.Errorf("no shapes declared")
				}
				if err := prompts.RunShapePicker("Select shape to remove", &shapeName, ctx.Doc.Shapes); err != nil {
					return err
				}
			}
			return runShapesRemove(ctx, shapeName, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func runShapesRemove(ctx *session.Context, shapeName string, force bool) error {
	if ctx.Doc.Shape(shapeName) == nil {
		return fmt.Errorf("shape %q not declared", shapeName)
	}

	var referencedBy []string
	for i := range ctx.Doc.Shapes {
		s := &ctx.Doc.Shapes[i]
		if s.Name == shapeName {
			continue
		}
		for _, ref := range s.References() {
			if ref == shapeName {
				referencedBy = append(referencedBy, s.Name)
				break
			}
		}
	}
	if len(referencedBy) > 0 {
		return fmt.Errorf("shape %q is referenced by %s", shapeName, strings.Join(referencedBy, ", "))
	}

	if !force {
		confirmed := false
		if err := prompts.RunConfirm(fmt.Sprintf("Remove shape %q?", shapeName), &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	shapes := ctx.Doc.Shapes[:0]
	for i := range ctx.Doc.Shapes {
		if ctx.Doc.Shapes[i].Name != shapeName {
			shapes = append(shapes, ctx.Doc.Shapes[i])
		}
	}
	ctx.Doc.Shapes = shapes

	if err := writeDocument(ctx); err != nil {
		return err
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Shape", Value: shapeName},
		{Label: "Document", Value: ctx.DocPath},
	}, "Shape removed")

	return nil
}
