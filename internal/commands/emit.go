// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/session"
	"github.com/spf13/cobra"
)

type emitOptions struct {
	name   string
	format string
	output string
	all    bool
}

func newEmitCmd(emitters emit.Register) *cobra.Command {
	opts := &emitOptions{}

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit shape schemas in a target format",
		Long: fmt.Sprintf(`Emit one or more declared shapes as schema files in a target format.

Each emitted file covers one shape and every shape it references.
Emitting the same document twice yields byte-identical files.

Available formats: %s`, strings.Join(emitters.Available(), ", ")),
		Example: `  # Interactive mode
  declo emit

  # Emit one shape as JSON Schema
  declo emit --name Order --format jsonschema

  # Emit several shapes
  declo emit --name Order,Customer --format openapi

  # Emit all shapes to a custom output directory
  declo emit --all --format gotypes --output models`,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, emitters, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Shape name(s), comma-separated")
	cmd.Flags().StringVar(&opts.format, "format", "", fmt.Sprintf("Output format (%s)", strings.Join(emitters.Available(), ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (also used as package name for Go types)")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Emit all shapes")

	return cmd
}

func runEmit(cmd *cobra.Command, emitters emit.Register, opts *emitOptions) error {
	ctx, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}

	if len(ctx.Doc.Shapes) == 0 {
		return fmt.Errorf("no shapes declared")
	}
	if opts.all && opts.name != "" {
		return fmt.Errorf("--all and --name are mutually exclusive")
	}

	var selected []string
	switch {
	case opts.all:
		selected = ctx.Doc.ShapeNames()
	case opts.name != "":
		for _, n := range strings.Split(opts.name, ",") {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if ctx.Doc.Shape(n) == nil {
				return fmt.Errorf("shape %q not declared", n)
			}
			selected = append(selected, n)
		}
	}

	// Project config supplies defaults; flags override; prompts fill
	// whatever is still missing.
	format := opts.format
	if format == "" && !cmd.Flags().Changed("format") {
		format = ctx.Config.Emit.Format
	}
	output := opts.output
	if output == "" {
		output = ctx.Config.Emit.Output
	}
	askOutput := output == "" && !cmd.Flags().Changed("output")

	err = prompts.RunEmitForm(
		&selected, &format, &output,
		askOutput,
		ctx.Doc.Shapes, emitters.Available(),
	)
	if err != nil {
		return err
	}

	if len(selected) == 0 {
		return fmt.Errorf("no shapes selected")
	}
	if output == "" {
		output = "schemas"
	}

	emitter, err := emitters.Get(format)
	if err != nil {
		return fmt.Errorf("unsupported format %q. Available formats: %s",
			format, strings.Join(emitters.Available(), ", "))
	}

	if err := os.MkdirAll(output, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Printf("Emitting %d shape(s) as %s...\n", len(selected), format)

	var failures []string
	written := 0
	for _, name := range selected {
		data, err := emitter.Emit(name, ctx.Doc, output)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		outFile := filepath.Join(output, name+emitter.FileExtension())
		if err := os.WriteFile(outFile, data, 0o600); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		fmt.Printf("  %s\n", outFile)
		written++
	}

	fmt.Printf("\nSuccessfully emitted %d shape(s)\n", written)

	if len(failures) > 0 {
		fmt.Println("\nErrors:")
		for _, f := range failures {
			fmt.Printf("  - %s\n", f)
		}
		return fmt.Errorf("failed to emit %d shape(s)", len(failures))
	}

	return nil
}
