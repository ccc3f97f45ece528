// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/declolabs/cli/internal/config"
	"github.com/declolabs/cli/internal/shapedecl"
)

var (
	// ErrNotInitialized indicates no declo.yaml was found in the current directory.
	ErrNotInitialized = errors.New("not in a declo project (declo.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDocNotFound indicates the shape document referenced by config doesn't exist.
	ErrDocNotFound = errors.New("shape document not found")

	// ErrInvalidDoc indicates the shape document exists but has declaration errors.
	ErrInvalidDoc = errors.New("invalid shape document")
)

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved project configuration and parsed shape document.
type Context struct {
	// Config is the fully resolved configuration (extends chains applied).
	Config *config.Config

	// Doc is the parsed shape document.
	Doc *shapedecl.Document

	// DocPath is the path of the file Doc was read from.
	DocPath string
}

// Locate resolves the project configuration and the shape document
// path from the current working directory without parsing the
// document. Commands that report declaration problems themselves load
// from the returned path instead of going through Load.
func Locate() (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("resolve working directory: %w", err)
	}

	configPath := filepath.Join(cwd, config.DefaultFileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return nil, "", ErrNotInitialized
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidConfig, validateErr)
	}

	docPath := cfg.Path
	switch {
	case docPath == "":
		docPath = findDeclFile(cwd)
		if docPath == "" {
			return nil, "", fmt.Errorf("%w: no shapedecl.yaml or shapedecl.json in %s", ErrDocNotFound, cwd)
		}
	case !filepath.IsAbs(docPath):
		docPath = filepath.Join(cwd, docPath)
	}
	if _, statErr := os.Stat(docPath); statErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDocNotFound, statErr)
	}

	return cfg, docPath, nil
}

// Load loads the project context from the current working directory and
// returns a new context.Context with the declo Context stored in it.
// The shape document must parse and verify cleanly; Load surfaces the
// first declaration problem and points at vet for the rest.
func Load(ctx context.Context) (context.Context, error) {
	cfg, docPath, err := Locate()
	if err != nil {
		return nil, err
	}

	doc, err := shapedecl.Load(docPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDoc, err)
	}
	if issues := doc.Verify(); len(issues) > 0 {
		if rest := len(issues) - 1; rest > 0 {
			return nil, fmt.Errorf("%w: %v (and %d more; run declo vet)", ErrInvalidDoc, issues[0], rest)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDoc, issues[0])
	}

	sess := &Context{
		Config:  cfg,
		Doc:     doc,
		DocPath: docPath,
	}

	return context.WithValue(ctx, contextKey{}, sess), nil
}

// findDeclFile looks for shapedecl.yaml or shapedecl.json in the given
// directory. Returns the path if found, or empty string if not found.
func findDeclFile(dir string) string {
	yamlPath := filepath.Join(dir, "shapedecl.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	jsonPath := filepath.Join(dir, "shapedecl.json")
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath
	}

	return ""
}

// From extracts the declo Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sess, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sess
	}
	return nil
}
