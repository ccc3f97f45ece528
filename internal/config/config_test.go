// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "declo.yaml")

	cfg := Config{
		Version: 1,
		Path:    "shapes/shapes.yaml",
		Emit: Emit{
			Format: "jsonschema",
			Output: "out",
		},
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	loaded, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.Path, loaded.Path)
	assert.Equal(t, cfg.Emit, loaded.Emit)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "valid config",
			cfg:     Config{Version: 1},
			wantErr: "",
		},
		{
			name:    "unsupported version",
			cfg:     Config{Version: 99},
			wantErr: "unsupported config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_SaveFormat(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "declo.yaml")

	cfg := Config{
		Version: 1,
		Path:    "shapes/shapes.yaml",
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file path
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, "version: 1")
	assert.Contains(t, output, "path: shapes/shapes.yaml")
	assert.NotContains(t, output, "extends")
}

func TestConfig_Load(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "shapes/shapes.yaml", cfg.Path)
	assert.Equal(t, "jsonschema", cfg.Emit.Format)
}

func TestConfig_Load_NotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	assert.Error(t, err)
}

func TestConfig_Save_InvalidPath(t *testing.T) {
	cfg := Config{Version: 1}

	err := cfg.Save("/nonexistent/directory/config.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyFile, []byte(""), 0o600))

	_, err := Load(emptyFile)
	assert.Error(t, err)
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestConfig_Resolve_NoExtends(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "declo.yaml")
	writeConfig(t, cfgPath, "version: 1\npath: shapes.yaml\n")

	cfg, err := Resolve(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "shapes.yaml", cfg.Path)
}

func TestConfig_Resolve_ChildWins(t *testing.T) {
	tmpDir := t.TempDir()
	parent := filepath.Join(tmpDir, "base.yaml")
	child := filepath.Join(tmpDir, "declo.yaml")

	writeConfig(t, parent, `
version: 1
path: base-shapes.yaml
emit:
  format: jsonschema
  output: out
`)
	writeConfig(t, child, `
version: 1
extends: base.yaml
emit:
  format: markdown
`)

	cfg, err := Resolve(child)
	require.NoError(t, err)

	// Inherited from the parent.
	assert.Equal(t, "base-shapes.yaml", cfg.Path)
	assert.Equal(t, "out", cfg.Emit.Output)
	// Overridden by the child.
	assert.Equal(t, "markdown", cfg.Emit.Format)
}

func TestConfig_Resolve_RelativeToDeclaringFile(t *testing.T) {
	tmpDir := t.TempDir()
	shared := filepath.Join(tmpDir, "shared")
	project := filepath.Join(tmpDir, "project")
	require.NoError(t, os.MkdirAll(shared, 0o750))
	require.NoError(t, os.MkdirAll(project, 0o750))

	writeConfig(t, filepath.Join(shared, "base.yaml"), "version: 1\npath: shapes.yaml\n")
	writeConfig(t, filepath.Join(project, "declo.yaml"), "version: 1\nextends: ../shared/base.yaml\n")

	cfg, err := Resolve(filepath.Join(project, "declo.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "shapes.yaml", cfg.Path)
}

func TestConfig_Resolve_Cycle(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.yaml")
	b := filepath.Join(tmpDir, "b.yaml")

	writeConfig(t, a, "version: 1\nextends: b.yaml\n")
	writeConfig(t, b, "version: 1\nextends: a.yaml\n")

	_, err := Resolve(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extends cycle")
}

func TestConfig_Resolve_MissingParent(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "declo.yaml")
	writeConfig(t, cfgPath, "version: 1\nextends: gone.yaml\n")

	_, err := Resolve(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extends gone.yaml")
}
