package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/pkg/adapters/memory"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/observability"
	"github.com/aretw0/wayfarer/pkg/runner"
	"github.com/aretw0/wayfarer/pkg/session"
)

type fixture struct {
	handler http.Handler
	streams *StreamManager
	store   *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	engine, err := wayfarer.New(wayfarer.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	store := memory.NewStore()
	streams := NewStreamManager(nil)
	handler, err := NewHandler(engine, session.NewManager(store, engine),
		WithMetrics(reg),
		WithStreams(streams),
	)
	require.NoError(t, err)

	return &fixture{
		handler: handler,
		streams: streams,
		store:   store,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/sessions/{session_id}/events"))
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = f.do(t, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]string](t, w)
	assert.Equal(t, wayfarer.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])
}

func TestOpenAPIAndSwagger(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = f.do(t, http.MethodGet, "/swagger", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SwaggerUIBundle")
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodOptions, "/sessions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCatalogAndGraph(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"food"`)
	assert.Contains(t, w.Body.String(), `"name":"Goa"`)

	w = f.do(t, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	graph := decode[Graph](t, w)
	assert.Contains(t, graph.Nodes, "landing")
	assert.Contains(t, graph.Nodes, "reviewing")
	assert.NotEmpty(t, graph.Transitions)
	assert.Empty(t, graph.Current)

	f.do(t, http.MethodPost, "/sessions", `{"session_id":"g1"}`)
	f.do(t, http.MethodPost, "/sessions/g1/events", `{"kind":"start"}`)

	w = f.do(t, http.MethodGet, "/graph?session_id=g1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "collecting.destination", decode[Graph](t, w).Current)

	w = f.do(t, http.MethodGet, "/graph?session_id=missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[runner.Response](t, w)
	assert.NotEmpty(t, resp.State.SessionID)
	assert.Equal(t, domain.ScreenLanding, resp.View.Screen)

	w = f.do(t, http.MethodPost, "/sessions", `{"session_id":"trip-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/sessions", `{"session_id":"trip-1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]string](t, w), 2)
}

func TestCreateSession_RejectsBadIDs(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{`{"session_id":"../etc"}`, `{"session_id":"a b"}`, `{"other":1}`} {
		w := f.do(t, http.MethodPost, "/sessions", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "INVALID_REQUEST", decode[errorEnvelope](t, w).Error.Code)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/sessions/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	env := decode[errorEnvelope](t, w)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.NotEmpty(t, env.Error.RequestID)
}

func TestDispatchEvent_GoaScenario(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", `{"session_id":"goa"}`)

	events := []string{
		`{"kind":"start"}`,
		`{"kind":"set_field","field":"destination","text":"Goa"}`,
		`{"kind":"advance"}`,
		`{"kind":"advance"}`,
		`{"kind":"set_field","field":"budget_per_person","number":75000}`,
		`{"kind":"advance"}`,
		`{"kind":"advance"}`,
		`{"kind":"toggle_interest","tag":"food"}`,
		`{"kind":"advance"}`,
	}

	var last runner.Response
	for _, ev := range events {
		w := f.do(t, http.MethodPost, "/sessions/goa/events", ev)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		last = decode[runner.Response](t, w)
	}

	assert.Equal(t, domain.OutcomeSubmitted, last.Outcome)
	require.NotNil(t, last.Diff)
	assert.True(t, last.Diff.DraftCleared)
	require.NotNil(t, last.State.Submitted)
	assert.Equal(t, "Goa", last.State.Submitted.Destination)
	assert.Equal(t, 75000, last.State.Submitted.BudgetPerPerson)
	assert.Equal(t, []string{"food"}, last.State.Submitted.Interests)

	w := f.do(t, http.MethodGet, "/sessions/goa/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[domain.View](t, w)
	assert.Equal(t, domain.ScreenReviewing, view.Screen)
	assert.Equal(t, "Goa", view.Highlight)

	w = f.do(t, http.MethodGet, "/sessions/goa/itinerary", "")
	require.Equal(t, http.StatusOK, w.Code)
	it := decode[domain.Itinerary](t, w)
	assert.Equal(t, "Goa", it.Destination)
	assert.Len(t, it.Days, 3)
}

func TestDispatchEvent_IgnoredIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", `{"session_id":"s1"}`)

	w := f.do(t, http.MethodPost, "/sessions/s1/events", `{"kind":"edit"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[runner.Response](t, w)
	assert.Equal(t, domain.OutcomeIgnored, resp.Outcome)
	assert.Nil(t, resp.Diff)
	assert.Equal(t, domain.ScreenLanding, resp.State.Screen)
}

func TestDispatchEvent_Errors(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", `{"session_id":"s1"}`)
	f.do(t, http.MethodPost, "/sessions/s1/events", `{"kind":"start"}`)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"Unknown Kind", "/sessions/s1/events", `{"kind":"jump"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"Unknown Property", "/sessions/s1/events", `{"kind":"start","x":1}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"Malformed JSON", "/sessions/s1/events", `{"kind":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"Unknown Tag", "/sessions/s1/events", `{"kind":"toggle_interest","tag":"scuba"}`, http.StatusBadRequest, "INVALID_EVENT"},
		{"Bad Date", "/sessions/s1/events", `{"kind":"set_field","field":"start_date","text":"soon"}`, http.StatusBadRequest, "INVALID_EVENT"},
		{"Missing Session", "/sessions/ghost/events", `{"kind":"start"}`, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[errorEnvelope](t, w).Error.Code)
		})
	}
}

func TestItinerary_NotSubmitted(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", `{"session_id":"s1"}`)

	w := f.do(t, http.MethodGet, "/sessions/s1/itinerary", "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NOT_SUBMITTED", decode[errorEnvelope](t, w).Error.Code)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", `{"session_id":"s1"}`)

	w := f.do(t, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := f.store.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", `{"session_id":"m1"}`)
	f.do(t, http.MethodPost, "/sessions/m1/events", `{"kind":"start"}`)

	w := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wayfarer_transitions_total{event="start",outcome="started"} 1`)
}

func TestStreamSession(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	f.do(t, http.MethodPost, "/sessions", `{"session_id":"live"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/live/stream?watch=screen", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	next := func() string {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed")
			return line
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for SSE line")
			return ""
		}
	}

	assert.Equal(t, "event: ping", next())
	assert.Equal(t, "data: connected", next())
	assert.Equal(t, "", next())

	require.Eventually(t, func() bool {
		return f.streams.Subscribers("live") == 1
	}, time.Second, 10*time.Millisecond)

	// Filtered out: touches the draft only.
	f.do(t, http.MethodPost, "/sessions/live/events", `{"kind":"start"}`)
	f.do(t, http.MethodPost, "/sessions/live/events", `{"kind":"set_field","field":"destination","text":"Goa"}`)
	f.do(t, http.MethodPost, "/sessions/live/events", `{"kind":"retreat"}`)

	assert.Equal(t, "event: diff", next())
	first := next()
	assert.True(t, strings.HasPrefix(first, "data: "))
	assert.Contains(t, first, `"screen":"collecting"`)
	assert.Equal(t, "", next())

	assert.Equal(t, "event: diff", next())
	second := next()
	assert.Contains(t, second, `"screen":"landing"`)
	assert.Contains(t, second, `"draft_cleared":true`)
}

func TestStreamSession_NotFound(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/sessions/ghost/stream", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWatches(t *testing.T) {
	screen := domain.ScreenReviewing
	diff := &domain.StateDiff{SessionID: "s", Screen: &screen, DraftCleared: true}

	assert.True(t, Watches(diff, ""))
	assert.True(t, Watches(diff, "screen"))
	assert.True(t, Watches(diff, "step, draft"))
	assert.False(t, Watches(diff, "step,submitted"))
}
