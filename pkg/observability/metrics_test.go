package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drive(t *testing.T, hooks domain.LifecycleHooks, events ...domain.Event) *domain.State {
	t.Helper()
	eng, err := wayfarer.New(wayfarer.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	ctx := context.Background()
	state := eng.Start("m")
	for _, ev := range events {
		state, _, err = eng.Dispatch(ctx, state, ev)
		require.NoError(t, err)
	}
	return state
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	events := []domain.Event{domain.Retreat(), domain.Start(), domain.SetNumber(domain.FieldGroupSize, 4)}
	for range domain.StepCount {
		events = append(events, domain.Advance())
	}
	events = append(events, domain.Edit())

	state := drive(t, m.Hooks(), events...)
	require.Equal(t, domain.ScreenCollecting, state.Screen)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("retreat", "ignored")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Transitions.WithLabelValues("advance", "advanced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("advance", "submitted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenDrafts), "edit reopens the draft")

	count, err := testutil.GatherAndCount(reg, "wayfarer_submitted_group_size")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilRegistry(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotNil(t, m.Hooks().OnTransition)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	drive(t, observability.LogHooks(logger), domain.Edit(), domain.Start())

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "msg=transition"), "ignored events stay at debug")
	assert.Contains(t, out, "outcome=started")
}

func TestChainedHooks(t *testing.T) {
	var buf bytes.Buffer
	m := observability.NewMetrics(nil)
	hooks := domain.ChainHooks(m.Hooks(), observability.LogHooks(slog.New(slog.NewTextHandler(&buf, nil))))

	drive(t, hooks, domain.Start())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenDrafts))
	assert.Contains(t, buf.String(), "outcome=started")
}
