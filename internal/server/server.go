package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/repcounter/internal/presets"
	"github.com/claude/repcounter/internal/workout"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	engine  *workout.Engine
	presets *presets.Service
	events  *EventHub
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. events should be the
// hub registered as the engine's observer.
func New(engine *workout.Engine, presetSvc *presets.Service, events *EventHub, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		engine:  engine,
		presets: presetSvc,
		events:  events,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read-only presentation endpoints
		r.Get("/workout", s.handleWorkoutState)
		r.Get("/workout/events", s.handleWorkoutEvents)
		r.Get("/workout/config", s.handleGetConfig)
		r.Get("/presets", s.handleListPresets)
		r.Get("/presets/{id}", s.handleGetPreset)

		// Controls (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/workout/start", s.handleStart)
			r.Post("/workout/pause", s.handlePause)
			r.Post("/workout/resume", s.handleResume)
			r.Post("/workout/reset", s.handleReset)
			r.Put("/workout/config", s.handleReplaceConfig)
			r.Patch("/workout/config", s.handlePatchConfig)
			r.Post("/presets", s.handleCreatePreset)
			r.Put("/presets/{id}", s.handleUpdatePreset)
			r.Delete("/presets/{id}", s.handleDeletePreset)
			r.Post("/presets/{id}/apply", s.handleApplyPreset)
		})
	})
}

// MountMCP serves an MCP streamable HTTP handler at /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}
