// Package server exposes the operator API: correction table management,
// manual weather refreshes, SEO regeneration and metadata inspection.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bstardust/photo-seo-enricher/internal/corrections"
	"github.com/bstardust/photo-seo-enricher/internal/enrich"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/orchestrator"
	"github.com/bstardust/photo-seo-enricher/internal/seo"
	"github.com/bstardust/photo-seo-enricher/internal/store"
)

// Server wraps the HTTP operator API
type Server struct {
	addr   string
	store  *store.Store
	tables *corrections.Tables
	orch   *orchestrator.Orchestrator
	enrich *enrich.Enricher
	seo    *seo.Engine
	server *http.Server
}

// New creates a new Server
func New(addr string, s *store.Store, tables *corrections.Tables,
	orch *orchestrator.Orchestrator, en *enrich.Enricher, se *seo.Engine) *Server {
	return &Server{
		addr:   addr,
		store:  s,
		tables: tables,
		orch:   orch,
		enrich: en,
		seo:    se,
	}
}

// Start runs the server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	r := mux.NewRouter()
	s.setupRoutes(r)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server...")

		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctxShutdown)
	}()

	logger.Info("Server starting on %s", s.addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) setupRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	r.HandleFunc("/api/posts/{id:[0-9]+}/metadata", s.handleMetadata).Methods("GET")
	r.HandleFunc("/api/posts/{id:[0-9]+}/process", s.handleProcess).Methods("POST")
	r.HandleFunc("/api/posts/{id:[0-9]+}/weather/refresh", s.handleWeatherRefresh).Methods("POST")
	r.HandleFunc("/api/posts/{id:[0-9]+}/seo/regenerate", s.handleSEORegenerate).Methods("POST")
	r.HandleFunc("/api/posts/{id:[0-9]+}/tags/scores", s.handleTagScores).Methods("GET")

	r.HandleFunc("/api/corrections/{table}", s.handleListCorrections).Methods("GET")
	r.HandleFunc("/api/corrections/{table}", s.handleCreateCorrection).Methods("POST")
	r.HandleFunc("/api/corrections/{table}/{id:[0-9]+}", s.handleUpdateCorrection).Methods("PUT")
	r.HandleFunc("/api/corrections/{table}/{id:[0-9]+}", s.handleDeleteCorrection).Methods("DELETE")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
