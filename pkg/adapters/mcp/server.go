package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/internal/logging"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/runner"
	"github.com/aretw0/wayfarer/pkg/session"
)

const (
	CatalogURI = "wayfarer://catalog"
	GraphURI   = "wayfarer://graph"
)

// Engine defines what the MCP server needs from the wizard engine.
type Engine interface {
	runner.Engine
	Transitions() []domain.Transition
	Catalog() *catalog.Catalog
}

// Server wraps the wizard engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Never point it at stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
		mcpServer: server.NewMCPServer("wayfarer-mcp", wayfarer.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartSessionArgs are the arguments of the start_session tool.
type StartSessionArgs struct {
	SessionID string `json:"session_id,omitempty"`
	Fresh     bool   `json:"fresh,omitempty"`
}

// DispatchEventArgs are the arguments of the dispatch_event tool.
type DispatchEventArgs struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Field     string `json:"field,omitempty"`
	Text      string `json:"text,omitempty"`
	Number    int    `json:"number,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

// SessionArgs identify a stored session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

func (s *Server) registerTools() {
	kinds := make([]string, 0, len(domain.EventKinds()))
	for _, k := range domain.EventKinds() {
		kinds = append(kinds, string(k))
	}
	fields := make([]string, 0, len(domain.Fields()))
	for _, f := range domain.Fields() {
		fields = append(fields, string(f))
	}

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Open a trip planning session on the landing screen, or resume an existing one."),
		mcp.WithString("session_id", mcp.Description("Session to open. A new ID is generated when omitted.")),
		mcp.WithBoolean("fresh", mcp.Description("Discard any stored progress for the session.")),
		mcp.WithOutputSchema[runner.Response](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("dispatch_event",
		mcp.WithDescription("Apply one wizard event. Events whose precondition does not hold return outcome \"ignored\"."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(kinds...), mcp.Description("Event kind")),
		mcp.WithString("field", mcp.Enum(fields...), mcp.Description("Field for set_field")),
		mcp.WithString("text", mcp.Description("Value for destination or dates (YYYY-MM-DD)")),
		mcp.WithNumber("number", mcp.Description("Value for budget_per_person or group_size")),
		mcp.WithString("tag", mcp.Description("Interest tag for toggle_interest")),
		mcp.WithOutputSchema[runner.Response](),
	), mcp.NewStructuredToolHandler(s.handleDispatchEvent))

	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Render the current screen of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithOutputSchema[domain.View](),
	), mcp.NewStructuredToolHandler(s.handleGetView))

	s.mcpServer.AddTool(mcp.NewTool("get_itinerary",
		mcp.WithDescription("Generate the day-by-day plan of a submitted trip request."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithOutputSchema[domain.Itinerary](),
	), mcp.NewStructuredToolHandler(s.handleGetItinerary))
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args StartSessionArgs) (runner.Response, error) {
	id := args.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	var (
		state *domain.State
		err   error
	)
	if args.Fresh {
		state, err = s.sessions.Reset(ctx, id)
	} else {
		state, _, err = s.sessions.LoadOrStart(ctx, id)
	}
	if err != nil {
		return runner.Response{}, fmt.Errorf("start session: %w", err)
	}
	return *runner.NewResponse(s.engine, state, ""), nil
}

func (s *Server) handleDispatchEvent(ctx context.Context, request mcp.CallToolRequest, args DispatchEventArgs) (runner.Response, error) {
	ev := domain.Event{
		Kind:   domain.EventKind(args.Kind),
		Field:  domain.Field(args.Field),
		Number: args.Number,
		Tag:    args.Tag,
	}
	if args.Text != "" {
		clean, err := runner.SanitizeInput(args.Text)
		if err != nil {
			s.logger.Warn("MCP dispatch: input rejected", "err", err, "size", len(args.Text))
			return runner.Response{}, fmt.Errorf("input rejected: %w", err)
		}
		ev.Text = clean
	}

	update, err := s.sessions.Dispatch(ctx, args.SessionID, ev)
	if err != nil {
		return runner.Response{}, fmt.Errorf("dispatch %s: %w", ev, err)
	}
	return *runner.FromUpdate(s.engine, update), nil
}

func (s *Server) handleGetView(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (domain.View, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return domain.View{}, err
	}
	return s.engine.Render(state), nil
}

func (s *Server) handleGetItinerary(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (domain.Itinerary, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return domain.Itinerary{}, err
	}
	it, err := s.engine.Itinerary(ctx, state)
	if errors.Is(err, domain.ErrNotSubmitted) {
		return domain.Itinerary{}, fmt.Errorf("%w: finish the wizard (advance past the interests step) first", err)
	}
	if err != nil {
		return domain.Itinerary{}, err
	}
	return *it, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Trip Catalog",
		mcp.WithResourceDescription("Interest tags accepted by toggle_interest and the known destinations."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(CatalogURI, s.engine.Catalog())
	})

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Wizard Transition Table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(GraphURI, s.engine.Transitions())
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
