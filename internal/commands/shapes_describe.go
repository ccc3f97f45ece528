// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/session"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/spf13/cobra"
)

type shapesDescribeOptions struct {
	output string // output format: text, json, yaml
	docs   bool
}

func newShapesDescribeCmd(emitters emit.Register) *cobra.Command {
	opts := &shapesDescribeOptions{}

	cmd := &cobra.Command{
		Use:   "describe [SHAPE_NAME]",
		Short: "Show detailed information about a shape",
		Long: `Display a shape's complete declaration: fields, types, presence flags,
and constraints. If no shape name is provided, an interactive selection
prompt is shown.`,
		Example: `  # Interactive selection
  declo shapes describe

  # Show shape details in human-readable format
  declo shapes describe Order

  # Show the declaration as JSON or YAML
  declo shapes describe Order -o json
  declo shapes describe Order -o yaml

  # Render the shape's generated documentation in the terminal
  declo shapes describe Order --docs`,
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
				if err := prompts.RunShapePicker("Select shape to describe", &shapeName, ctx.Doc.Shapes); err != nil {
					return err
				}
			}
			return runShapesDescribe(ctx, emitters, shapeName, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.docs, "docs", false, "Render generated markdown documentation")

	return cmd
}

func runShapesDescribe(ctx *session.Context, emitters emit.Register, shapeName string, opts *shapesDescribeOptions) error {
	shape := ctx.Doc.Shape(shapeName)
	if shape == nil {
		return fmt.Errorf("shape %q not declared", shapeName)
	}

	if opts.docs {
		return renderShapeDocs(ctx, emitters, shapeName)
	}

	switch opts.output {
	case "json":
		data, err := shapedecl.NewJSONWriter().MarshalShape(shape)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err

	case "yaml":
		data, err := shapedecl.NewYAMLWriter().MarshalShape(shape)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err

	default:
		printShapeText(shape)
		return nil
	}
}

// renderShapeDocs runs the markdown emitter for one shape and renders
// the result for the terminal.
func renderShapeDocs(ctx *session.Context, emitters emit.Register, shapeName string) error {
	emitter, err := emitters.Get("markdown")
	if err != nil {
		return err
	}
	data, err := emitter.Emit(shapeName, ctx.Doc, "")
	if err != nil {
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("render documentation: %w", err)
	}
	fmt.Print(out)
	return nil
}

func printShapeText(shape *shapedecl.Shape) {
	fmt.Printf("Name:        %s\n", shape.Name)
	if shape.Description != "" {
		fmt.Printf("Description: %s\n", shape.Description)
	}
	fmt.Println()

	if len(shape.Fields) == 0 {
		fmt.Println("Fields: (none)")
		return
	}

	fmt.Println("Fields:")
	for i := range shape.Fields {
		f := &shape.Fields[i]
		fmt.Printf("  %s: %s%s\n", f.Name, fieldTypeLabel(f), presenceLabel(f))
		if f.Description != "" {
			fmt.Printf("    Description: %s\n", f.Description)
		}
		if c := describeConstraints(f.Constraints); c != "" {
			fmt.Printf("    Constraints: %s\n", c)
		}
		if f.Items != nil && !f.Items.Constraints.Empty() {
			fmt.Printf("    Items:       %s\n", describeConstraints(f.Items.Constraints))
		}
	}
}

func fieldTypeLabel(f *shapedecl.Field) string {
	switch f.Type {
	case shapedecl.TypeShape:
		return f.ShapeRef
	case shapedecl.TypeArray:
		return "array of " + specTypeLabel(f.Items)
	case shapedecl.TypeUnion:
		labels := make([]string, len(f.Variants))
		for i := range f.Variants {
			labels[i] = specTypeLabel(&f.Variants[i])
		}
		return strings.Join(labels, " | ")
	}
	return string(f.Type)
}

func specTypeLabel(ts *shapedecl.TypeSpec) string {
	if ts == nil {
		return "?"
	}
	switch ts.Type {
	case shapedecl.TypeShape:
		return ts.ShapeRef
	case shapedecl.TypeArray:
		return "array of " + specTypeLabel(ts.Items)
	}
	return string(ts.Type)
}

func presenceLabel(f *shapedecl.Field) string {
	var flags []string
	if f.Optional {
		flags = append(flags, "optional")
	}
	if f.Nullable {
		flags = append(flags, "nullable")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}

// describeConstraints renders raw constraint keywords for text output,
// keyword by keyword in canonical order.
func describeConstraints(c shapedecl.Constraints) string {
	var parts []string
	if c.Format != "" {
		parts = append(parts, "format="+c.Format)
	}
	if c.Pattern != "" {
		parts = append(parts, "pattern="+c.Pattern)
	}
	if c.MinLength != nil {
		parts = append(parts, "minLength="+strconv.Itoa(*c.MinLength))
	}
	if c.MaxLength != nil {
		parts = append(parts, "maxLength="+strconv.Itoa(*c.MaxLength))
	}
	if c.Minimum != nil {
		parts = append(parts, fmt.Sprintf("minimum=%v", *c.Minimum))
	}
	if c.Maximum != nil {
		parts = append(parts, fmt.Sprintf("maximum=%v", *c.Maximum))
	}
	if c.ExclusiveMinimum != nil {
		parts = append(parts, fmt.Sprintf("exclusiveMinimum=%v", *c.ExclusiveMinimum))
	}
	if c.ExclusiveMaximum != nil {
		parts = append(parts, fmt.Sprintf("exclusiveMaximum=%v", *c.ExclusiveMaximum))
	}
	if c.MultipleOf != nil {
		parts = append(parts, fmt.Sprintf("multipleOf=%v", *c.MultipleOf))
	}
	if len(c.Enum) > 0 {
		values := make([]string, len(c.Enum))
		for i, v := range c.Enum {
			values[i] = fmt.Sprintf("%v", v)
		}
		parts = append(parts, "enum=["+strings.Join(values, ", ")+"]")
	}
	if c.Const != nil {
		parts = append(parts, fmt.Sprintf("const=%v", c.Const))
	}
	if c.MinItems != nil {
		parts = append(parts, "minItems="+strconv.Itoa(*c.MinItems))
	}
	if c.MaxItems != nil {
		parts = append(parts, "maxItems="+strconv.Itoa(*c.MaxItems))
	}
	return strings.Join(parts, ", ")
}
