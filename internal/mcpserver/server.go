// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package mcpserver exposes the project's shapes to Model Context
// Protocol clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/declolabs/cli/internal/validate"
	"github.com/declolabs/cli/internal/version"
)

// DocumentURI is the resource URI the full shape document is served
// under.
const DocumentURI = "declo://document"

// ShapeInfo is one entry of the list_shapes result.
type ShapeInfo struct {
	Name        string `json:"name" jsonschema_description:"Shape name as declared in the document"`
	Description string `json:"description,omitempty" jsonschema_description:"Shape description, if declared"`
	Fields      int    `json:"fields" jsonschema_description:"Number of declared fields"`
}

// ShapeList is the structured result of the list_shapes tool.
type ShapeList struct {
	Title  string      `json:"title,omitempty" jsonschema_description:"Document title"`
	Shapes []ShapeInfo `json:"shapes" jsonschema_description:"Shapes in declaration order"`
}

// SchemaResult is the structured result of the get_schema tool.
type SchemaResult struct {
	Shape  string `json:"shape" jsonschema_description:"Shape the schema was emitted for"`
	Format string `json:"format" jsonschema_description:"Emitted format"`
	Schema string `json:"schema" jsonschema_description:"Emitted schema text"`
}

// ValidationReport is the structured result of the validate_value tool.
type ValidationReport struct {
	Shape      string               `json:"shape" jsonschema_description:"Shape the value was checked against"`
	Valid      bool                 `json:"valid" jsonschema_description:"Whether the value satisfied every check"`
	Violations []validate.Violation `json:"violations" jsonschema_description:"Failed checks, located by path"`
}

// Server wraps the project's shape document and exposes it as an MCP
// server.
type Server struct {
	doc        *shapedecl.Document
	emitters   emit.Register
	validators map[string]*validate.Validator
	log        *slog.Logger
	mcpServer  *server.MCPServer
}

// New compiles a validator for every shape and registers the declo
// tool set.
func New(doc *shapedecl.Document, emitters emit.Register, log *slog.Logger) (*Server, error) {
	s := &Server{
		doc:        doc,
		emitters:   emitters,
		validators: make(map[string]*validate.Validator, len(doc.Shapes)),
		log:        log,
		mcpServer:  server.NewMCPServer("declo-mcp", version.Short()),
	}

	for _, name := range doc.ShapeNames() {
		v, err := validate.Compile(doc, name)
		if err != nil {
			return nil, fmt.Errorf("compile validator for %s: %w", name, err)
		}
		s.validators[name] = v
	}

	s.registerTools()
	s.registerResources()
	return s, nil
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_shapes",
		mcp.WithDescription("List the shapes declared in the project document."),
		mcp.WithOutputSchema[ShapeList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListShapes))

	schemaTool := mcp.NewTool("get_schema",
		mcp.WithDescription("Emit the schema for one shape in a target format."),
		mcp.WithString("shape", mcp.Required(), mcp.Description("Shape name")),
		mcp.WithString("format", mcp.Description("Target format (default jsonschema)")),
		mcp.WithOutputSchema[SchemaResult](),
	)
	s.mcpServer.AddTool(schemaTool, mcp.NewStructuredToolHandler(s.handleGetSchema))

	validateTool := mcp.NewTool("validate_value",
		mcp.WithDescription("Check a JSON-encoded value against one shape and report every violation."),
		mcp.WithString("shape", mcp.Required(), mcp.Description("Shape name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Candidate value, JSON-encoded")),
		mcp.WithOutputSchema[ValidationReport](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidateValue))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DocumentURI, "Shape Document",
		mcp.WithMIMEType("application/yaml"),
	), s.handleDocumentResource)
}

func (s *Server) handleListShapes(_ context.Context, _ mcp.CallToolRequest, _ map[string]interface{}) (ShapeList, error) {
	list := ShapeList{
		Title:  s.doc.Info.Title,
		Shapes: make([]ShapeInfo, 0, len(s.doc.Shapes)),
	}
	for i := range s.doc.Shapes {
		shape := &s.doc.Shapes[i]
		list.Shapes = append(list.Shapes, ShapeInfo{
			Name:        shape.Name,
			Description: shape.Description,
			Fields:      len(shape.Fields),
		})
	}
	return list, nil
}

type getSchemaArgs struct {
	Shape  string `mapstructure:"shape"`
	Format string `mapstructure:"format"`
}

func (s *Server) handleGetSchema(_ context.Context, _ mcp.CallToolRequest, raw map[string]interface{}) (SchemaResult, error) {
	var args getSchemaArgs
	if err := mapstructure.Decode(raw, &args); err != nil {
		return SchemaResult{}, fmt.Errorf("decode arguments: %w", err)
	}
	if args.Format == "" {
		args.Format = "jsonschema"
	}

	if s.doc.Shape(args.Shape) == nil {
		return SchemaResult{}, fmt.Errorf("unknown shape: %s", args.Shape)
	}
	emitter, err := s.emitters.Get(args.Format)
	if err != nil {
		return SchemaResult{}, fmt.Errorf("%v (available: %s)", err, strings.Join(s.emitters.Available(), ", "))
	}

	data, err := emitter.Emit(args.Shape, s.doc, "")
	if err != nil {
		return SchemaResult{}, fmt.Errorf("emit %s as %s: %w", args.Shape, args.Format, err)
	}

	s.log.Info("get_schema", "shape", args.Shape, "format", args.Format)
	return SchemaResult{Shape: args.Shape, Format: args.Format, Schema: string(data)}, nil
}

type validateArgs struct {
	Shape string `mapstructure:"shape"`
	Value string `mapstructure:"value"`
}

func (s *Server) handleValidateValue(_ context.Context, _ mcp.CallToolRequest, raw map[string]interface{}) (ValidationReport, error) {
	var args validateArgs
	if err := mapstructure.Decode(raw, &args); err != nil {
		return ValidationReport{}, fmt.Errorf("decode arguments: %w", err)
	}

	v, ok := s.validators[args.Shape]
	if !ok {
		return ValidationReport{}, fmt.Errorf("unknown shape: %s", args.Shape)
	}

	var value any
	if err := json.Unmarshal([]byte(args.Value), &value); err != nil {
		return ValidationReport{}, fmt.Errorf("value is not valid JSON: %w", err)
	}

	result := v.Validate(value)
	s.log.Info("validate_value", "shape", args.Shape, "valid", result.Valid(), "violations", len(result.Violations))

	report := ValidationReport{Shape: args.Shape, Valid: result.Valid(), Violations: result.Violations}
	if report.Violations == nil {
		report.Violations = []validate.Violation{}
	}
	return report, nil
}

func (s *Server) handleDocumentResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := shapedecl.NewYAMLWriter().Marshal(s.doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentURI,
			MIMEType: "application/yaml",
			Text:     string(data),
		},
	}, nil
}
