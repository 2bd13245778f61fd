// Package handler implements the HTTP handlers for the certification API.
// All handlers are methods on Server; NewRouter mounts them on a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/service"
)

// Certifier runs one certification request.
// *service.CertificationService satisfies it.
type Certifier interface {
	Certify(ctx context.Context, req service.Request) (service.Certification, error)
}

// SnapshotSource reports whether reference data is loaded.
// *reference.Store satisfies it.
type SnapshotSource interface {
	Load() (*reference.Snapshot, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	certs     Certifier
	snapshots SnapshotSource
	openAPI   []byte
	log       *slog.Logger
	validate  *validator.Validate
}

// NewServer constructs the Server. openAPI is served verbatim at
// /openapi.yaml.
func NewServer(certs Certifier, snapshots SnapshotSource, openAPI []byte, log *slog.Logger) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Server{
		certs:     certs,
		snapshots: snapshots,
		openAPI:   openAPI,
		log:       log,
		validate:  v,
	}
}

// NewRouter mounts the API on a chi router. protect wraps the routes that
// do work on behalf of a client (API key, rate limit, body size); probes and
// the API document stay open.
func NewRouter(s *Server, protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(protect...)
		r.Post("/challenges", s.CreateChallenge)
	})
	return r
}
