package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/presets"
	"github.com/claude/repcounter/internal/storage"
	"github.com/claude/repcounter/internal/workout"
)

func (s *Server) handleWorkoutState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Start(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.ActionResult{Changed: true, State: s.engine.State()})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	changed := s.engine.Pause()
	writeJSON(w, http.StatusOK, models.ActionResult{Changed: changed, State: s.engine.State()})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	changed := s.engine.Resume()
	writeJSON(w, http.StatusOK, models.ActionResult{Changed: changed, State: s.engine.State()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine.Reset()
	s.log.Info("workout reset")
	writeJSON(w, http.StatusOK, models.ActionResult{Changed: true, State: s.engine.State()})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Configuration())
}

func (s *Server) handleReplaceConfig(w http.ResponseWriter, r *http.Request) {
	if !s.editable(w) {
		return
	}
	var cfg workout.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.engine.ApplyConfiguration(cfg)
	writeJSON(w, http.StatusOK, s.engine.Configuration())
}

func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	if !s.editable(w) {
		return
	}
	var patch workout.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	cfg, err := s.engine.Patch(patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// editable refuses configuration edits while a run is ticking.
func (s *Server) editable(w http.ResponseWriter) bool {
	if s.engine.Runtime().Running {
		writeError(w, http.StatusConflict, workout.ErrRunning.Error()+"; pause or reset first")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, presets.ErrEmptyName),
		errors.Is(err, workout.ErrInvalidDuration),
		errors.Is(err, workout.ErrInvalidCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
