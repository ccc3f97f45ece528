// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Command gendocs generates LLM-friendly markdown documentation for the declo CLI.
//
// Usage:
//
//	go run ./cmd/gendocs [output-dir]
//
// Default output directory is ./docs/cli.
package main

import (
	"fmt"
	"os"

	"github.com/declolabs/cli/internal/commands"
	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/emit/gotypes"
	"github.com/declolabs/cli/internal/emit/jsonschema"
	"github.com/declolabs/cli/internal/emit/markdown"
	"github.com/declolabs/cli/internal/emit/openapi"
	"github.com/spf13/cobra/doc"
)

func main() {
	dir := "./docs/cli"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	emitters := make(emit.Register)
	emitters["jsonschema"] = &jsonschema.Emitter{}
	emitters["openapi"] = &openapi.Emitter{}
	emitters["markdown"] = &markdown.Emitter{}
	emitters["gotypes"] = &gotypes.Emitter{}

	rootCmd := commands.NewRootCmd(emitters)
	rootCmd.DisableAutoGenTag = true

	if err := os.MkdirAll(dir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := doc.GenMarkdownTree(rootCmd, dir); err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	// Rename declo.md to index.md
	oldPath := dir + "/declo.md"
	newPath := dir + "/index.md"
	if err := os.Rename(oldPath, newPath); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "error renaming %s to %s: %v\n", oldPath, newPath, err)
		os.Exit(1)
	}

	fmt.Printf("Documentation generated in %s\n", dir)
}
