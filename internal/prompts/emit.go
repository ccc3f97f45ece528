// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/declolabs/cli/internal/shapedecl"
)

// RunEmitForm prompts for whatever the emit command is still missing:
// shape selection, output format, and output directory. Values already
// set by flags are left alone. askOutput suppresses the output prompt
// when the flag was given explicitly.
func RunEmitForm(selected *[]string, format, output *string, askOutput bool, shapes []shapedecl.Shape, formats []string) error {
	var groups []*huh.Group

	if len(*selected) == 0 {
		options := make([]huh.Option[string], 0, len(shapes))
		for _, s := range shapes {
			label := s.Name
			if s.Description != "" {
				desc := s.Description
				if len([]rune(desc)) > 40 {
					desc = string([]rune(desc)[:37]) + "..."
				}
				label = fmt.Sprintf("%s - %s", s.Name, desc)
			}
			options = append(options, huh.NewOption(label, s.Name))
		}
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Shapes to emit").
				Options(options...).
				Value(selected).
				Height(10).
				Validate(func(sel []string) error {
					if len(sel) == 0 {
						return fmt.Errorf("select at least one shape")
					}
					return nil
				}),
		))
	}

	if *format == "" {
		groups = append(groups, huh.NewGroup(
			FormatSelect(format, formats),
		))
	}

	if askOutput {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Placeholder("schemas").
				Value(output),
		))
	}

	if len(groups) == 0 {
		return nil
	}
	return huh.NewForm(groups...).WithTheme(Theme()).Run()
}
