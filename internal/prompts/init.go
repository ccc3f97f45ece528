// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// RunInitForm runs the interactive form for the init command.
// It fills the provided pointers with user input.
func RunInitForm(extends, title, path, version, format *string, createDoc *bool) error {
	isExtends := false
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Configuration type").
				Options(
					huh.NewOption("Root configuration", false),
					huh.NewOption("Extend existing configuration", true),
				).
				Value(&isExtends),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Path to parent config").
				Placeholder("../declo.yaml").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("parent config path is required")
					}
					return nil
				}).
				Value(extends),
		).WithHideFunc(func() bool { return !isExtends }),
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Document source").
				Options(
					huh.NewOption("Create new shape document", true),
					huh.NewOption("Use existing shape document", false),
				).
				Height(3).
				Value(createDoc),
		).WithHideFunc(func() bool { return isExtends }),
		huh.NewGroup(
			huh.NewInput().
				TitleFunc(func() string {
					if *createDoc {
						return "Path for new document"
					}
					return "Path to existing document"
				}, createDoc).
				PlaceholderFunc(func() string {
					if *createDoc {
						return "shapes/shapedecl.yaml"
					}
					return ""
				}, createDoc).
				Validate(func(s string) error {
					if s == "" && !*createDoc {
						return errors.New("document path is required")
					}
					return nil
				}).
				Value(path),
		).WithHideFunc(func() bool { return isExtends }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Document format").
				Options(
					huh.NewOption("YAML (recommended)", "yaml"),
					huh.NewOption("JSON", "json"),
				).
				Value(format),
		).WithHideFunc(func() bool { return isExtends || !*createDoc }),
		huh.NewGroup(
			huh.NewInput().
				Title("Document title").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("document title is required")
					}
					return nil
				}).
				Value(title),
			huh.NewInput().
				Title("Version").
				Placeholder("0.1.0").
				Value(version),
		).WithHideFunc(func() bool { return isExtends || !*createDoc }),
	).WithTheme(Theme()).Run()
}
