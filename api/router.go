package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qrstudio/qrstudio/notify"
	"github.com/qrstudio/qrstudio/render"
	"github.com/qrstudio/qrstudio/studio"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Session *studio.Session
	Preview *render.ImageSurface
	Feed    *notify.Feed
	Log     *slog.Logger
	Version string
	Started time.Time

	// mu serialises every touch of the store and adapter: the form has a
	// single UI thread even though requests arrive concurrently.
	mu sync.Mutex
}

// NewRouter returns a fully configured chi router with all routes of the
// form.
func NewRouter(s *Server) http.Handler {
	if s.Log == nil {
		s.Log = slog.Default()
	}
	if s.Started.IsZero() {
		s.Started = time.Now()
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))

	// Form
	r.Get("/", s.handleFormPage)
	r.Get("/preview.png", s.handlePreview)
	r.Get("/export/{format}", s.handleExport)

	// JSON API used by the form
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleGetState)
		r.Post("/config", s.handlePostConfig)
		r.Get("/notifications", s.handleNotifications)
	})

	r.Get("/status", s.handleStatus)

	return r
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func queryUint(r *http.Request, key string, defaultVal uint64) uint64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}

// --- middleware --------------------------------------------------------------

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
