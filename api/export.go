package api

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qrstudio/qrstudio/render"
)

// handleExport downloads the current QR code. Before the first render there
// is nothing to export and the request is answered with 204.
//
// The artifact is built while holding s.mu; the body is written after the
// lock is released so a slow client does not stall the form.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var art *render.Artifact
	sink := render.SinkFunc(func(ctx context.Context, a *render.Artifact) error {
		art = a
		return nil
	})

	s.mu.Lock()
	initialized := s.Session.Adapter.Initialized()
	if initialized {
		err = s.Session.Export(r.Context(), format, sink)
	}
	s.mu.Unlock()

	switch {
	case !initialized:
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to download "+format.Label())
	default:
		writeArtifact(w, art)
	}
}

// writeArtifact sends a as an attachment.
func writeArtifact(w http.ResponseWriter, a *render.Artifact) {
	h := w.Header()
	h.Set("Content-Type", a.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

// handlePreview serves the display surface: the engine's latest frame.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	data, rev, ok := s.Preview.PNG()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Revision", strconv.Itoa(rev))
	w.Write(data)
}
