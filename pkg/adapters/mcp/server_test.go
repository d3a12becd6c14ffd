package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/pkg/adapters/memory"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/session"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	engine, err := wayfarer.New()
	require.NoError(t, err)
	return NewServer(engine, session.NewManager(memory.NewStore(), engine))
}

func call(t *testing.T, s *Server, method string, params any) json.RawMessage {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return out
}

func TestStartSession(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	resp, err := s.handleStartSession(ctx, mcp.CallToolRequest{}, StartSessionArgs{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.State.SessionID)
	assert.Equal(t, domain.ScreenLanding, resp.View.Screen)

	resp, err = s.handleStartSession(ctx, mcp.CallToolRequest{}, StartSessionArgs{SessionID: "trip-1"})
	require.NoError(t, err)
	assert.Equal(t, "trip-1", resp.State.SessionID)

	_, err = s.handleDispatchEvent(ctx, mcp.CallToolRequest{}, DispatchEventArgs{SessionID: "trip-1", Kind: "start"})
	require.NoError(t, err)

	resp, err = s.handleStartSession(ctx, mcp.CallToolRequest{}, StartSessionArgs{SessionID: "trip-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenCollecting, resp.State.Screen, "resumes stored progress")

	resp, err = s.handleStartSession(ctx, mcp.CallToolRequest{}, StartSessionArgs{SessionID: "trip-1", Fresh: true})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenLanding, resp.State.Screen)
}

func TestDispatchEvent_GoaScenario(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleStartSession(ctx, mcp.CallToolRequest{}, StartSessionArgs{SessionID: "goa"})
	require.NoError(t, err)

	_, err = s.handleGetItinerary(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "goa"})
	assert.ErrorIs(t, err, domain.ErrNotSubmitted)

	steps := []DispatchEventArgs{
		{Kind: "start"},
		{Kind: "set_field", Field: "destination", Text: "Goa"},
		{Kind: "advance"},
		{Kind: "advance"},
		{Kind: "set_field", Field: "budget_per_person", Number: 75000},
		{Kind: "advance"},
		{Kind: "advance"},
		{Kind: "toggle_interest", Tag: "food"},
		{Kind: "advance"},
	}

	var outcome domain.Outcome
	for _, args := range steps {
		args.SessionID = "goa"
		resp, err := s.handleDispatchEvent(ctx, mcp.CallToolRequest{}, args)
		require.NoError(t, err)
		outcome = resp.Outcome
	}
	assert.Equal(t, domain.OutcomeSubmitted, outcome)

	view, err := s.handleGetView(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "goa"})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenReviewing, view.Screen)
	require.NotNil(t, view.Request)
	assert.Equal(t, 75000, view.Request.BudgetPerPerson)

	it, err := s.handleGetItinerary(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "goa"})
	require.NoError(t, err)
	assert.Equal(t, "Goa", it.Destination)
	assert.Equal(t, 2, it.Travelers)
}

func TestDispatchEvent_Errors(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleDispatchEvent(ctx, mcp.CallToolRequest{}, DispatchEventArgs{SessionID: "ghost", Kind: "start"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.handleStartSession(ctx, mcp.CallToolRequest{}, StartSessionArgs{SessionID: "s1"})
	require.NoError(t, err)

	_, err = s.handleDispatchEvent(ctx, mcp.CallToolRequest{}, DispatchEventArgs{SessionID: "s1", Kind: "jump"})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)

	_, err = s.handleDispatchEvent(ctx, mcp.CallToolRequest{}, DispatchEventArgs{SessionID: "s1", Kind: "toggle_interest", Tag: "scuba"})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	resp, err := s.handleDispatchEvent(ctx, mcp.CallToolRequest{}, DispatchEventArgs{SessionID: "s1", Kind: "restart"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIgnored, resp.Outcome)
}

func TestToolsList(t *testing.T) {
	s := newServer(t)

	call(t, s, "initialize", map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
		"capabilities":    map[string]any{},
	})

	out := string(call(t, s, "tools/list", map[string]any{}))
	for _, name := range []string{"start_session", "dispatch_event", "get_view", "get_itinerary"} {
		assert.Contains(t, out, `"name":"`+name+`"`)
	}
}

func TestCatalogResource(t *testing.T) {
	s := newServer(t)

	call(t, s, "initialize", map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
		"capabilities":    map[string]any{},
	})

	var resp struct {
		Result struct {
			Contents []struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(call(t, s, "resources/read", map[string]any{"uri": CatalogURI}), &resp))
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, CatalogURI, resp.Result.Contents[0].URI)
	assert.Contains(t, resp.Result.Contents[0].Text, `"id":"nightlife"`)
}
