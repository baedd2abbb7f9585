package server

import (
	"net/http"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/go-chi/chi/v5"
)

// handleMachines lists the catalog, optionally filtered by ?muscle= or
// ?category=.
func (s *Server) handleMachines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("muscle") != "":
		writeJSON(w, http.StatusOK, nonNil(s.catalog.ByMuscleGroup(q.Get("muscle"))))
	case q.Get("category") != "":
		writeJSON(w, http.StatusOK, nonNil(s.catalog.ByCategory(models.MachineCategory(q.Get("category")))))
	default:
		writeJSON(w, http.StatusOK, s.catalog.Machines())
	}
}

func (s *Server) handleMachine(w http.ResponseWriter, r *http.Request) {
	m, ok := s.catalog.Find(chi.URLParam(r, "name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "machine not found"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleRecommendedMachines(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileOrEmpty(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, nonNil(s.catalog.Recommended(profile, s.now())))
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Modes())
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Presets())
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	machines, ok := s.catalog.Preset(chi.URLParam(r, "name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "preset not found"})
		return
	}
	writeJSON(w, http.StatusOK, machines)
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil(ms []models.Machine) []models.Machine {
	if ms == nil {
		return []models.Machine{}
	}
	return ms
}
