// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package prompts

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/declolabs/cli/internal/shapedecl"
)

// ShapeAddResult holds the result of RunShapeAddForm.
type ShapeAddResult struct {
	Name        string
	Description string
	Fields      []shapedecl.Field
}

// RunShapeAddForm runs the interactive form for adding a shape: name
// and description first, then one field at a time until the user
// stops. The new shape may reference any declared shape, itself
// included.
func RunShapeAddForm(doc *shapedecl.Document) (result ShapeAddResult, _ error) {
	existing := make(map[string]shapedecl.Shape, len(doc.Shapes))
	for _, s := range doc.Shapes {
		existing[s.Name] = s
	}

	// Step 1: shape name and description
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Shape name").
				Placeholder("e.g., Order").
				Value(&result.Name).
				Validate(identifierValidator(existing)),
			huh.NewInput().
				Title("Description (optional)").
				Placeholder("e.g., One purchase order").
				Value(&result.Description),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return result, err
	}

	shapeTargets := make([]string, 0, len(doc.Shapes)+1)
	for _, s := range doc.Shapes {
		shapeTargets = append(shapeTargets, s.Name)
	}
	shapeTargets = append(shapeTargets, result.Name)

	// Step 2: fields, one loop iteration each
	taken := make(map[string]struct{})
	for {
		field, err := runFieldForm(taken, shapeTargets)
		if err != nil {
			return result, err
		}
		result.Fields = append(result.Fields, *field)
		taken[field.Name] = struct{}{}

		var addAnother bool
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Add another field?").
					Affirmative("Yes").
					Negative("No").
					Value(&addAnother),
			),
		).WithTheme(Theme()).Run(); err != nil {
			return result, err
		}
		if !addAnother {
			break
		}
	}

	return result, nil
}

func runFieldForm(taken map[string]struct{}, shapeTargets []string) (*shapedecl.Field, error) {
	field := &shapedecl.Field{}

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Field name").
				Placeholder("e.g., id").
				Value(&field.Name).
				Validate(identifierValidator(taken)),
			huh.NewInput().
				Title("Description (optional)").
				Value(&field.Description),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return nil, err
	}

	var typ string
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Field type").
				Options(
					huh.NewOption("string", "string"),
					huh.NewOption("number", "number"),
					huh.NewOption("integer", "integer"),
					huh.NewOption("boolean", "boolean"),
					huh.NewOption("array", "array"),
					huh.NewOption("shape reference", "shape"),
				).
				Value(&typ),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return nil, err
	}
	field.Type = shapedecl.BaseType(typ)

	switch field.Type {
	case shapedecl.TypeString:
		if err := promptStringConstraints(&field.Constraints); err != nil {
			return nil, err
		}
	case shapedecl.TypeNumber, shapedecl.TypeInteger:
		if err := promptNumberConstraints(&field.Constraints); err != nil {
			return nil, err
		}
	case shapedecl.TypeShape:
		ref, err := pickShapeTarget(shapeTargets)
		if err != nil {
			return nil, err
		}
		field.ShapeRef = ref
	case shapedecl.TypeArray:
		items, err := runItemsForm(shapeTargets)
		if err != nil {
			return nil, err
		}
		field.Items = items
	}

	required := true
	var nullable bool
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Is this field required?").
				Affirmative("Yes").
				Negative("No").
				Value(&required),
			huh.NewConfirm().
				Title("May it be null?").
				Affirmative("Yes").
				Negative("No").
				Value(&nullable),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return nil, err
	}
	field.Optional = !required
	field.Nullable = nullable

	return field, nil
}

func promptStringConstraints(c *shapedecl.Constraints) error {
	var format, enumValues string

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Format (optional)").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("date-time", "date-time"),
					huh.NewOption("date", "date"),
					huh.NewOption("time", "time"),
					huh.NewOption("duration", "duration"),
					huh.NewOption("email", "email"),
					huh.NewOption("hostname", "hostname"),
					huh.NewOption("ipv4", "ipv4"),
					huh.NewOption("ipv6", "ipv6"),
					huh.NewOption("uuid", "uuid"),
					huh.NewOption("uri", "uri"),
				).
				Height(8).
				Value(&format),
			huh.NewInput().
				Title("Allowed values (comma-separated, optional)").
				Placeholder("e.g., active,inactive,pending").
				Value(&enumValues),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return err
	}

	c.Format = format
	if enumValues != "" {
		parts := strings.Split(enumValues, ",")
		c.Enum = make([]any, len(parts))
		for i, p := range parts {
			c.Enum[i] = strings.TrimSpace(p)
		}
	}
	return nil
}

func promptNumberConstraints(c *shapedecl.Constraints) error {
	var minStr, maxStr string

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum value (optional)").
				Placeholder("e.g., 0").
				Value(&minStr).
				Validate(optionalNumberValidator),
			huh.NewInput().
				Title("Maximum value (optional)").
				Placeholder("e.g., 100").
				Value(&maxStr).
				Validate(optionalNumberValidator),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return err
	}

	if minStr != "" {
		if val, err := strconv.ParseFloat(minStr, 64); err == nil {
			c.Minimum = &val
		}
	}
	if maxStr != "" {
		if val, err := strconv.ParseFloat(maxStr, 64); err == nil {
			c.Maximum = &val
		}
	}
	return nil
}

func pickShapeTarget(targets []string) (string, error) {
	options := make([]huh.Option[string], len(targets))
	for i, name := range targets {
		options[i] = huh.NewOption(name, name)
	}

	var ref string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target shape").
				Options(options...).
				Filtering(true).
				Value(&ref).
				Height(8),
		),
	).WithTheme(Theme()).Run()
	return ref, err
}

func runItemsForm(shapeTargets []string) (*shapedecl.TypeSpec, error) {
	var typ string
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Array item type").
				Options(
					huh.NewOption("string", "string"),
					huh.NewOption("number", "number"),
					huh.NewOption("integer", "integer"),
					huh.NewOption("boolean", "boolean"),
					huh.NewOption("shape reference", "shape"),
				).
				Value(&typ),
		),
	).WithTheme(Theme()).Run(); err != nil {
		return nil, err
	}

	spec := &shapedecl.TypeSpec{Type: shapedecl.BaseType(typ)}
	if spec.Type == shapedecl.TypeShape {
		ref, err := pickShapeTarget(shapeTargets)
		if err != nil {
			return nil, err
		}
		spec.ShapeRef = ref
	}
	return spec, nil
}
