// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/declolabs/cli/internal/config"
	"github.com/declolabs/cli/internal/prompts"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/spf13/cobra"
)

type initOptions struct {
	title          string
	path           string
	extends        string
	version        string
	format         string
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new declo project",
		Long: `Initialize a new declo project in the current directory.

Creates a declo.yaml configuration file and, unless the project extends
an existing configuration, a starter shape declaration document.`,
		Example: `  # Interactive mode
  declo init

  # Non-interactive with a new document
  declo init --title "Order Shapes" --non-interactive

  # Extend a shared parent configuration
  declo init --extends ../declo.yaml --non-interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Document title")
	cmd.Flags().StringVar(&opts.path, "path", "", "Path for the shape declaration document")
	cmd.Flags().StringVar(&opts.extends, "extends", "", "Path to a parent declo.yaml to extend")
	cmd.Flags().StringVar(&opts.version, "version", "", "Document version (default 0.1.0)")
	cmd.Flags().StringVar(&opts.format, "format", "yaml", "Document format (yaml, json)")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runInit(opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(cwd, config.DefaultFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists; project already initialized", config.DefaultFileName)
	}

	extends := opts.extends
	title := opts.title
	docPath := opts.path
	version := opts.version
	format := opts.format
	createDoc := true

	if opts.nonInteractive {
		if title == "" && extends == "" {
			return fmt.Errorf("non-interactive mode requires either --title or --extends")
		}
	} else {
		if err := prompts.RunInitForm(&extends, &title, &docPath, &version, &format, &createDoc); err != nil {
			return err
		}
	}

	if extends != "" {
		return initExtends(cwd, configPath, extends)
	}

	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported document format %q (yaml, json)", format)
	}
	if docPath == "" {
		docPath = filepath.Join("shapes", "shapedecl."+format)
	}
	if version == "" {
		version = "0.1.0"
	}

	absDocPath := docPath
	if !filepath.IsAbs(absDocPath) {
		absDocPath = filepath.Join(cwd, docPath)
	}

	docNote := ""
	switch _, err := os.Stat(absDocPath); {
	case err == nil:
		// Adopt the document already on disk.
		createDoc = false
		docNote = " (existing)"
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to check document path: %w", err)
	case !createDoc:
		return fmt.Errorf("document %q not found", docPath)
	}

	if createDoc {
		writer, err := shapedecl.WriterForPath(absDocPath)
		if err != nil {
			return err
		}
		doc := &shapedecl.Document{
			ShapeDecl: "1.0",
			Info:      shapedecl.Info{Title: title, Version: version},
		}
		data, err := writer.Marshal(doc)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(absDocPath), 0o750); err != nil {
			return fmt.Errorf("failed to create document directory: %w", err)
		}
		if err := os.WriteFile(absDocPath, data, 0o600); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
	}

	cfg := &config.Config{
		Version: config.CurrentConfigVersion,
		Path:    filepath.ToSlash(docPath),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Config", Value: config.DefaultFileName},
		{Label: "Document", Value: docPath + docNote},
		{Label: "Title", Value: title},
	}, "Initialization completed")

	return nil
}

// initExtends writes a child configuration pointing at a parent
// declo.yaml. The document path, defaults, and any further parents
// come from the chain.
func initExtends(cwd, configPath, extends string) error {
	parent := extends
	if !filepath.IsAbs(parent) {
		parent = filepath.Join(cwd, extends)
	}
	if _, err := os.Stat(parent); err != nil {
		return fmt.Errorf("parent config %q not found", extends)
	}

	cfg := &config.Config{
		Version: config.CurrentConfigVersion,
		Extends: filepath.ToSlash(extends),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Config", Value: config.DefaultFileName},
		{Label: "Extends", Value: extends},
	}, "Initialization completed")

	return nil
}
