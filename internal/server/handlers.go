package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bstardust/photo-seo-enricher/internal/corrections"
	"github.com/bstardust/photo-seo-enricher/internal/enrich"
	"github.com/bstardust/photo-seo-enricher/internal/orchestrator"
	"github.com/bstardust/photo-seo-enricher/pkg/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type correctionRequest struct {
	RawName string `json:"raw_name"`
	Pretty  string `json:"pretty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps the typed store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	var dup *common.DuplicateKeyError
	var val *common.ValidationError
	var missing *common.NotFoundError
	switch {
	case errors.As(err, &dup):
		writeError(w, http.StatusConflict, dup.Error())
	case errors.As(err, &val):
		writeError(w, http.StatusBadRequest, val.Error())
	case errors.As(err, &missing):
		writeError(w, http.StatusNotFound, missing.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func postID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) correctionTable(r *http.Request) *corrections.Table {
	switch mux.Vars(r)["table"] {
	case "cameras":
		return s.tables.Cameras
	case "lenses":
		return s.tables.Lenses
	case "locations":
		return s.tables.Locations
	}
	return nil
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.AllMeta(postID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "1"
	err := s.orch.ProcessPost(r.Context(), postID(r), orchestrator.NewArena(), orchestrator.Options{
		Force:       force,
		SyncWeather: true,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// handleWeatherRefresh is the synchronous refresh path: the specific failure
// reason goes back to the operator instead of a generic error.
func (s *Server) handleWeatherRefresh(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "1"
	err := s.enrich.RefreshWeather(r.Context(), postID(r), force)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
	case errors.Is(err, enrich.ErrNoGPS), errors.Is(err, enrich.ErrNoCaptureTime):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, enrich.ErrOnCooldown):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, enrich.ErrWeatherFetch):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeStoreError(w, err)
	}
}

func (s *Server) handleSEORegenerate(w http.ResponseWriter, r *http.Request) {
	desc, err := s.seo.GenerateDescription(postID(r), true)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": desc})
}

func (s *Server) handleTagScores(w http.ResponseWriter, r *http.Request) {
	scored, err := s.seo.ScoredTags(postID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scored)
}

func (s *Server) handleListCorrections(w http.ResponseWriter, r *http.Request) {
	table := s.correctionTable(r)
	if table == nil {
		writeError(w, http.StatusNotFound, "unknown correction table")
		return
	}
	entries, err := table.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateCorrection(w http.ResponseWriter, r *http.Request) {
	table := s.correctionTable(r)
	if table == nil {
		writeError(w, http.StatusNotFound, "unknown correction table")
		return
	}
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := table.Upsert(0, req.RawName, req.Pretty)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateCorrection(w http.ResponseWriter, r *http.Request) {
	table := s.correctionTable(r)
	if table == nil {
		writeError(w, http.StatusNotFound, "unknown correction table")
		return
	}
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := table.Upsert(id, req.RawName, req.Pretty)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteCorrection(w http.ResponseWriter, r *http.Request) {
	table := s.correctionTable(r)
	if table == nil {
		writeError(w, http.StatusNotFound, "unknown correction table")
		return
	}
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	removed, err := table.Delete(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "correction entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
