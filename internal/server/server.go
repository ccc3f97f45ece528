// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package server exposes compiled shape artifacts over HTTP for
// development workflows.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/declolabs/cli/internal/emit/jsonschema"
	"github.com/declolabs/cli/internal/shapedecl"
	"github.com/declolabs/cli/internal/validate"
)

// shutdownTimeout bounds the drain period after a shutdown signal.
const shutdownTimeout = 5 * time.Second

// Server serves shape listings, emitted schemas, and validation over
// HTTP. Validators are compiled once at construction; request handling
// is read-only and safe for concurrent use.
type Server struct {
	doc        *shapedecl.Document
	validators map[string]*validate.Validator
	log        *slog.Logger
	registry   *prometheus.Registry
	metrics    *metrics
}

// New compiles a validator for every shape in the document.
func New(doc *shapedecl.Document, log *slog.Logger) (*Server, error) {
	s := &Server{
		doc:        doc,
		validators: make(map[string]*validate.Validator, len(doc.Shapes)),
		log:        log,
		registry:   prometheus.NewRegistry(),
	}
	s.metrics = newMetrics(s.registry)

	for _, name := range doc.ShapeNames() {
		v, err := validate.Compile(doc, name)
		if err != nil {
			return nil, fmt.Errorf("compile validator for %s: %w", name, err)
		}
		s.validators[name] = v
	}
	return s, nil
}

// Handler returns the HTTP routing for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/v1/shapes", s.handleListShapes)
	r.Get("/v1/shapes/{name}/schema", s.handleSchema)
	r.Post("/v1/shapes/{name}/validate", s.handleValidate)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Run serves on addr until the context is canceled, a shutdown signal
// arrives, or the listener fails. Outstanding requests get a drain
// period before the listener is closed hard.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "shapes", len(s.validators))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		s.log.Info("shutdown started", "signal", sig.String())
	case <-ctx.Done():
		s.log.Info("shutdown started", "reason", "context canceled")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		s.log.Error("graceful shutdown incomplete", "error", err)
		return srv.Close()
	}
	s.log.Info("server stopped")
	return nil
}

type shapeSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Fields      int    `json:"fields"`
}

type shapeList struct {
	Shapes []shapeSummary `json:"shapes"`
}

type validationResponse struct {
	Valid      bool                 `json:"valid"`
	Violations []validate.Violation `json:"violations"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"shapes": len(s.validators),
	})
}

func (s *Server) handleListShapes(w http.ResponseWriter, _ *http.Request) {
	resp := shapeList{Shapes: make([]shapeSummary, 0, len(s.doc.Shapes))}
	for i := range s.doc.Shapes {
		shape := &s.doc.Shapes[i]
		resp.Shapes = append(resp.Shapes, shapeSummary{
			Name:        shape.Name,
			Description: shape.Description,
			Fields:      len(shape.Fields),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if s.doc.Shape(name) == nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown shape: %s", name))
		return
	}

	// Emitted per request: cyclic shapes validate fine but have no
	// tree representation, so emission can fail where compilation
	// did not.
	var emitter jsonschema.Emitter
	data, err := emitter.Emit(name, s.doc, "")
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("write schema response", "error", err)
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := s.validators[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown shape: %s", name))
		return
	}

	var value any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	start := time.Now()
	result := v.Validate(value)
	s.metrics.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	outcome := "valid"
	if !result.Valid() {
		outcome = "invalid"
	}
	s.metrics.validations.WithLabelValues(name, outcome).Inc()
	s.log.Info("validate", "shape", name, "outcome", outcome, "violations", len(result.Violations))

	resp := validationResponse{Valid: result.Valid(), Violations: result.Violations}
	if resp.Violations == nil {
		resp.Violations = []validate.Violation{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
