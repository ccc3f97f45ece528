// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/session"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/spf13/cobra"
)

func newShapesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a shape to the document",
		Long: `Add a new shape declaration through an interactive form: name and
description first, then fields one at a time. The document file is
rewritten in place, preserving declaration order.`,
		Example: `  # Add a shape interactively
  declo shapes add`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runShapesAdd(ctx)
		},
	}

	return cmd
}

func runShapesAdd(ctx *session.Context) error {
	result, err := prompts.RunShapeAddForm(ctx.Doc)
	if err != nil {
		return err
	}

	shape := shapedecl.Shape{
		Name:        result.Name,
		Description: result.Description,
		Fields:      result.Fields,
	}

	// The form constrains input, but normalization is the authority on
	// declaration errors.
	if _, err := shapedecl.NormalizeShape(&shape); err != nil {
		return fmt.Errorf("shape %q: %w", shape.Name, err)
	}

	ctx.Doc.Shapes = append(ctx.Doc.Shapes, shape)
	if err := writeDocument(ctx); err != nil {
		return err
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Shape", Value: shape.Name},
		{Label: "Fields", Value: strconv.Itoa(len(shape.Fields))},
		{Label: "Document", Value: ctx.DocPath},
	}, "Shape added")

	return nil
}

// writeDocument serializes the session document back to the file it
// was loaded from, in the same format.
func writeDocument(ctx *session.Context) error {
	writer, err := shapedecl.WriterForPath(ctx.DocPath)
	if err != nil {
		return err
	}
	data, err := writer.Marshal(ctx.Doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ctx.DocPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
