// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/declolabs/cli/internal/commands"
	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/emit/gotypes"
	"github.com/declolabs/cli/internal/emit/jsonschema"
	"github.com/declolabs/cli/internal/emit/markdown"
	"github.com/declolabs/cli/internal/emit/openapi"
)

func registerEmitters() emit.Register {
	emitters := make(emit.Register)
	emitters["jsonschema"] = &jsonschema.Emitter{}
	emitters["openapi"] = &openapi.Emitter{}
	emitters["markdown"] = &markdown.Emitter{}
	emitters["gotypes"] = &gotypes.Emitter{}
	return emitters
}

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string) error {
	emitters := registerEmitters()
	rootCmd := commands.NewRootCmd(emitters)
	return rootCmd.ExecuteContext(ctx)
}
