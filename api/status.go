package api

import (
	"net/http"
	"time"
)

type statusResponse struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
	EngineID    string `json:"engine_id,omitempty"`
	Uptime      string `json:"uptime"`
	Version     string `json:"version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.stateLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, statusResponse{
		Status:      "ok",
		Initialized: state.Initialized,
		EngineID:    state.EngineID,
		Uptime:      time.Since(s.Started).Truncate(time.Second).String(),
		Version:     s.Version,
	})
}
