// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package jschema_test

import (
	"testing"

	"github.com/declolabs/cli/internal/jschema"
	"github.com/stretchr/testify/assert"
)

func TestIsFileRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"relative file ref", "./other.yaml", true},
		{"parent file ref", "../other.yaml", true},
		{"simple file ref", "other.yaml", true},
		{"internal ref", "#/$defs/address", false},
		{"internal component ref", "#/components/schemas/User", false},
		{"empty string", "", false},
		{"hash only", "#", false},
		{"root pointer", "#/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jschema.IsFileRef(tt.ref)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefName(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"defs ref", "#/$defs/Address", "Address"},
		{"definitions ref", "#/definitions/item", "item"},
		{"components ref", "#/components/schemas/User", "User"},
		{"file ref", "./other.yaml", ""},
		{"unrecognized pointer", "#/properties/name", ""},
		{"nested pointer", "#/$defs/a/b", ""},
		{"empty string", "", ""},
		{"root pointer", "#/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jschema.RefName(tt.ref)
			assert.Equal(t, tt.want, got)
		})
	}
}
