package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/qrstudio/qrstudio/notify"
	"github.com/qrstudio/qrstudio/render"
	"github.com/qrstudio/qrstudio/store"
)

type levelOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type stateResponse struct {
	Config      store.Configuration `json:"config"`
	Bounds      store.SizeBounds    `json:"bounds"`
	Levels      []levelOption       `json:"levels"`
	Initialized bool                `json:"initialized"`
	EngineID    string              `json:"engine_id,omitempty"`
	Revision    int                 `json:"revision"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// stateLocked snapshots the session. The caller MUST hold s.mu.
func (s *Server) stateLocked() stateResponse {
	resp := stateResponse{
		Config: s.Session.Store.Get(),
		Bounds: s.Session.Store.Bounds(),
	}
	for _, l := range store.Levels {
		resp.Levels = append(resp.Levels, levelOption{Value: string(l), Label: l.Label()})
	}
	resp.Warnings = colorWarnings(resp.Config)
	if eng := s.Session.Adapter.Engine(); eng != nil {
		resp.Initialized = true
		resp.EngineID = eng.ID()
		resp.Revision = eng.Revision()
	}
	return resp
}

// colorWarnings explains colours the renderer cannot parse and will replace
// with black or white.
func colorWarnings(cfg store.Configuration) []string {
	var warnings []string
	if _, err := render.ParseColor(cfg.Foreground); err != nil {
		warnings = append(warnings, fmt.Sprintf("Foreground colour %q not recognised, using black", cfg.Foreground))
	}
	if _, err := render.ParseColor(cfg.Background); err != nil {
		warnings = append(warnings, fmt.Sprintf("Background colour %q not recognised, using white", cfg.Background))
	}
	return warnings
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.stateLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handlePostConfig applies a partial configuration from the form. The store
// publishes the change and the session syncs the renderer before the
// response is written.
func (s *Server) handlePostConfig(w http.ResponseWriter, r *http.Request) {
	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	err := s.Session.Store.Apply(patch)
	resp := s.stateLocked()
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, store.ErrUnknownLevel) || errors.Is(err, store.ErrUnknownStyle) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type notificationsResponse struct {
	LastSeq       uint64                `json:"last_seq"`
	Notifications []notify.Notification `json:"notifications"`
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	after := queryUint(r, "after", 0)
	writeJSON(w, http.StatusOK, notificationsResponse{
		LastSeq:       s.Feed.LastSeq(),
		Notifications: s.Feed.Since(after),
	})
}
