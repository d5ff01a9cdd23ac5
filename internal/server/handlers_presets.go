package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/repcounter/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := s.presets.List(r.Context())
	if err != nil {
		s.presetError(w, "list", err)
		return
	}
	if list == nil {
		list = []models.WorkoutPreset{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	id, ok := presetID(w, r)
	if !ok {
		return
	}
	p, err := s.presets.Get(r.Context(), id)
	if err != nil {
		s.presetError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req models.PresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var p *models.WorkoutPreset
	var err error
	if req.Config == nil {
		p, err = s.presets.SaveCurrent(r.Context(), req.Name)
	} else {
		p, err = s.presets.Create(r.Context(), req.Name, *req.Config)
	}
	if err != nil {
		s.presetError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := presetID(w, r)
	if !ok {
		return
	}
	var req models.PresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Config == nil {
		writeError(w, http.StatusBadRequest, "config is required")
		return
	}
	p, err := s.presets.Update(r.Context(), id, req.Name, *req.Config)
	if err != nil {
		s.presetError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := presetID(w, r)
	if !ok {
		return
	}
	if err := s.presets.Delete(r.Context(), id); err != nil {
		s.presetError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyPreset loads a preset into the engine. Any run in progress is
// reset by the apply.
func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	id, ok := presetID(w, r)
	if !ok {
		return
	}
	if _, err := s.presets.Apply(r.Context(), id); err != nil {
		s.presetError(w, "apply", err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.State())
}

func presetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid preset id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) presetError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("preset "+op+" failed", "error", err)
	}
	writeError(w, status, err.Error())
}
