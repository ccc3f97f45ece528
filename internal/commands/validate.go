// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/session"
	"github.com/declolabs/cli/internal/validate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type validateOptions struct {
	shape  string
	output string // output format: text, json
}

// fileReport is one file's validation outcome in -o json output.
type fileReport struct {
	File       string               `json:"file"`
	Shape      string               `json:"shape"`
	Valid      bool                 `json:"valid"`
	Violations []validate.Violation `json:"violations"`
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate value files against a shape",
		Long: `Validate one or more JSON or YAML value files against a declared shape.

Every violation in a file is reported, not just the first. A value with
the wrong overall shape is reported as a type mismatch at the root path
rather than failing the command. Exits non-zero when any file is invalid.`,
		Example: `  # Validate against a chosen shape (interactive shape selection)
  declo validate order.json

  # Validate several files against one shape
  declo validate orders/*.json --shape Order

  # Machine-readable report
  declo validate order.json --shape Order -o json`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runValidate(ctx, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.shape, "shape", "s", "", "Shape to validate against")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format (text, json)")

	return cmd
}

func runValidate(ctx *session.Context, files []string, opts *validateOptions) error {
	if len(ctx.Doc.Shapes) == 0 {
		return fmt.Errorf("no shapes declared")
	}

	shapeName := opts.shape
	if shapeName == "" {
		if opts.output == "json" {
			return fmt.Errorf("--shape is required with -o json")
		}
		if err := prompts.RunShapePicker("Validate against shape", &shapeName, ctx.Doc.Shapes); err != nil {
			return err
		}
	}

	validator, err := validate.Compile(ctx.Doc, shapeName)
	if err != nil {
		return err
	}

	reports := make([]fileReport, 0, len(files))
	invalid := 0
	for _, file := range files {
		value, err := decodeValueFile(file)
		if err != nil {
			return err
		}

		result := validator.Validate(value)
		if !result.Valid() {
			invalid++
		}

		violations := result.Violations
		if violations == nil {
			violations = []validate.Violation{}
		}
		reports = append(reports, fileReport{
			File:       file,
			Shape:      shapeName,
			Valid:      result.Valid(),
			Violations: violations,
		})
	}

	if opts.output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printReports(reports)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d file(s) invalid", invalid, len(files))
	}
	return nil
}

// decodeValueFile reads a candidate value in decoded-JSON form. YAML
// files are accepted too; yaml.v3 decodes mappings to map[string]any,
// which is what compiled validators expect.
func decodeValueFile(path string) (any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}

	var value any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return value, nil
}

func printReports(reports []fileReport) {
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#bababa"))

	for _, r := range reports {
		if r.Valid {
			fmt.Printf("%s %s\n", ok.Render("✓"), r.File)
			continue
		}
		fmt.Printf("%s %s\n", bad.Render("✗"), r.File)
		for _, v := range r.Violations {
			fmt.Printf("    %s %s %s\n", v.Path, v.Message, dim.Render("("+string(v.Kind)+")"))
		}
	}
}
