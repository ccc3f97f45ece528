// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/declolabs/cli/internal/importer"
	"github.com/declolabs/cli/internal/jschema"
	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/session"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/spf13/cobra"
)

type importOptions struct {
	name string
}

func newImportCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import SCHEMA_FILE",
		Short: "Import a JSON Schema as shape declarations",
		Long: `Convert a JSON Schema file (JSON or YAML) into shape declarations and
merge them into the project document.

The root schema becomes a shape, object $defs become sibling shapes, and
inline object schemas are hoisted into shapes of their own. External file
references are resolved before conversion. Schema constructs with no
declaration counterpart are dropped and reported as warnings.`,
		Example: `  # Import a schema, naming the root shape after its title
  declo import user.schema.json

  # Import with an explicit root shape name
  declo import user.schema.json --name User`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Name for the root shape (default: schema title)")

	return cmd
}

func runImport(schemaFile string, opts *importOptions) error {
	_, docPath, err := session.Locate()
	if err != nil {
		return err
	}

	absSchema, err := filepath.Abs(schemaFile)
	if err != nil {
		return err
	}
	loader := jschema.NewLoader(os.DirFS(filepath.Dir(absSchema)))
	src, err := loader.LoadFile(filepath.Base(absSchema))
	if err != nil {
		return fmt.Errorf("load %s: %w", schemaFile, err)
	}
	if err := loader.ResolveRefs(src, "."); err != nil {
		return fmt.Errorf("resolve references in %s: %w", schemaFile, err)
	}

	imported, warnings, err := importer.Convert(src, opts.name)
	if err != nil {
		return fmt.Errorf("convert %s: %w", schemaFile, err)
	}

	doc, err := shapedecl.Load(docPath)
	if err != nil {
		return fmt.Errorf("parse %s: %w", docPath, err)
	}

	var collisions []string
	for i := range imported.Shapes {
		if doc.Shape(imported.Shapes[i].Name) != nil {
			collisions = append(collisions, imported.Shapes[i].Name)
		}
	}
	if len(collisions) > 0 {
		return fmt.Errorf("document already declares %s; rename or remove before importing", strings.Join(collisions, ", "))
	}

	doc.Shapes = append(doc.Shapes, imported.Shapes...)
	if issues := doc.Verify(); len(issues) > 0 {
		return fmt.Errorf("imported declarations do not verify: %v", issues[0])
	}

	writer, err := shapedecl.WriterForPath(docPath)
	if err != nil {
		return err
	}
	data, err := writer.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(docPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if len(warnings) > 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#bababa"))
		fmt.Println(dim.Render("Dropped during import:"))
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	names := make([]string, len(imported.Shapes))
	for i := range imported.Shapes {
		names[i] = imported.Shapes[i].Name
	}
	prompts.PrintResult([]prompts.ResultField{
		{Label: "Source", Value: schemaFile},
		{Label: "Shapes", Value: strings.Join(names, ", ")},
		{Label: "Warnings", Value: strconv.Itoa(len(warnings))},
		{Label: "Document", Value: docPath},
	}, "Import completed")

	return nil
}
