package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/internal/logging"
	wizard "github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/runner"
	"github.com/aretw0/wayfarer/pkg/session"
)

// Engine is the slice of the wizard engine the HTTP API serves.
type Engine interface {
	runner.Engine
	Transitions() []domain.Transition
	Catalog() *catalog.Catalog
}

// Server holds the handlers of the HTTP API.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager

	logger     *slog.Logger
	gatherer   prometheus.Gatherer
	apiVersion string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and handler errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithStreams shares a StreamManager, e.g. with another transport.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		if streams != nil {
			s.Streams = streams
		}
	}
}

// NewHandler builds the HTTP API for the engine, storing sessions through the manager.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	doc, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	s.apiVersion = doc.Info.Version

	validate, err := ValidateRequests(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(Spec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/catalog", s.GetCatalog)
		r.Get("/graph", s.GetGraph)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Post("/", s.CreateSession)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", s.GetSession)
				r.Delete("/", s.DeleteSession)
				r.Post("/events", s.DispatchEvent)
				r.Get("/view", s.GetView)
				r.Get("/itinerary", s.GetItinerary)
				r.Get("/stream", s.StreamSession)
			})
		})
	})

	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Wayfarer API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "wayfarer-http",
		"version":     wayfarer.Version,
		"api_version": s.apiVersion,
	})
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Catalog())
}

// Graph is the transition table with an optional current-node overlay.
type Graph struct {
	Nodes       []string            `json:"nodes"`
	Transitions []domain.Transition `json:"transitions"`
	Current     string              `json:"current,omitempty"`
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var sessionID *string
	if err := runtime.BindQueryParameter("form", true, false, "session_id", r.URL.Query(), &sessionID); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	graph := Graph{
		Nodes:       wizard.Nodes(),
		Transitions: s.Engine.Transitions(),
	}
	if sessionID != nil {
		state, err := s.Sessions.Load(r.Context(), *sessionID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		graph.Current = wizard.StateNodeID(state)
	}
	writeJSON(w, http.StatusOK, graph)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

// CreateSession handles POST /sessions. Without a session_id a UUID is assigned.
// An existing session is returned as is with 200.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	state, created, err := s.Sessions.LoadOrStart(r.Context(), body.SessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		s.Streams.Broadcast(domain.Diff(nil, state))
	}
	writeJSON(w, status, runner.NewResponse(s.Engine, state, ""))
}

// GetSession handles GET /sessions/{session_id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, runner.NewResponse(s.Engine, state, ""))
}

// DeleteSession handles DELETE /sessions/{session_id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DispatchEvent handles POST /sessions/{session_id}/events.
// Unmet preconditions are not errors: the response carries outcome "ignored".
func (s *Server) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var ev domain.Event
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "invalid event body")
		s.logger.Warn("DispatchEvent: invalid request body", "session_id", id, "err", err)
		return
	}

	if ev.Text != "" {
		clean, err := runner.SanitizeInput(ev.Text)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_EVENT", err.Error())
			return
		}
		ev.Text = clean
	}

	update, err := s.Sessions.Dispatch(r.Context(), id, ev)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := runner.FromUpdate(s.Engine, update)
	if resp.Diff != nil {
		s.logger.Debug("DispatchEvent: broadcasting diff", "session_id", id, "outcome", update.Outcome)
		s.Streams.Broadcast(resp.Diff)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetView handles GET /sessions/{session_id}/view.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Engine.Render(state))
}

// GetItinerary handles GET /sessions/{session_id}/itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	it, err := s.Engine.Itinerary(r.Context(), state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// StreamSession handles GET /sessions/{session_id}/stream (SSE).
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}

	var watch string
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &watch); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe(state.SessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Info("SSE: client subscribed", "session_id", state.SessionID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", state.SessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if watch != "" {
				var diff domain.StateDiff
				if err := json.Unmarshal(msg, &diff); err == nil && !Watches(&diff, watch) {
					continue
				}
			}
			fmt.Fprintf(w, "event: diff\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

// sessionID binds the session_id path parameter.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "session_id", chi.URLParam(r, "session_id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return "", false
	}
	return id, true
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.State, bool) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return nil, false
	}
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return state, true
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownEvent):
		writeError(w, r, http.StatusBadRequest, "INVALID_EVENT", err.Error())
	case errors.Is(err, domain.ErrNotSubmitted):
		writeError(w, r, http.StatusConflict, "NOT_SUBMITTED", err.Error())
	case errors.Is(err, context.Canceled):
		s.logger.Debug("request cancelled", "path", r.URL.Path)
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
