// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/declolabs/cli/internal/session"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/spf13/cobra"
)

func newVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Check the shape document for declaration errors",
		Long: `Check every declaration in the project's shape document.

Reports incompatible constraints, conflicting bounds, invalid patterns,
unknown formats, unresolved shape references, and reference cycles that
would block schema emission. All problems are reported, not just the
first. Exits non-zero when any problem is found.`,
		Example: `  # Vet the current project's document
  declo vet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVet()
		},
	}

	return cmd
}

func runVet() error {
	_, docPath, err := session.Locate()
	if err != nil {
		return err
	}

	// Not session.Load: vet's whole point is reporting documents the
	// session layer refuses to load.
	doc, err := shapedecl.Load(docPath)
	if err != nil {
		return fmt.Errorf("parse %s: %w", docPath, err)
	}

	problems := doc.Verify()
	if cycle := doc.FindCycle(); cycle != nil {
		problems = append(problems, shapedecl.CycleError(cycle))
	}

	if len(problems) == 0 {
		ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
		fmt.Printf("%s %d shape(s) checked, no problems found\n", ok.Render("✓"), len(doc.Shapes))
		return nil
	}

	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	for _, p := range problems {
		fmt.Printf("%s %v\n", bad.Render("✗"), p)
	}
	return fmt.Errorf("found %d problem(s)", len(problems))
}
