// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/declolabs/cli/internal/shapedecl"
)

// RunShapePicker prompts the user to select one shape. Options keep
// document declaration order.
func RunShapePicker(title string, value *string, shapes []shapedecl.Shape) error {
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

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Filtering(true).
				Value(value).
				Height(10),
		),
	).WithTheme(Theme()).Run()
}

// FormatSelect returns a select field for choosing an output format,
// for composition into larger forms.
func FormatSelect(value *string, formats []string) *huh.Select[string] {
	options := make([]huh.Option[string], len(formats))
	for i, f := range formats {
		options[i] = huh.NewOption(f, f)
	}
	return huh.NewSelect[string]().
		Title("Output format").
		Options(options...).
		Value(value)
}

// RunConfirm asks a yes/no question styled like the rest of the CLI.
func RunConfirm(title string, confirmed *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithTheme(Theme()).Run()
}
