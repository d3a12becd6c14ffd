package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Screen = domain.ScreenCollecting
		state.Step = domain.StepBudget
		state.Draft = domain.DefaultTripRequest()
		state.Draft.Destination = "Goa"
		state.Draft.Interests = []string{"food", "nature"}
		state.Revision = 4

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.ScreenCollecting, loaded.Screen)
		assert.Equal(t, domain.StepBudget, loaded.Step)
		assert.Equal(t, 4, loaded.Revision)
		require.NotNil(t, loaded.Draft)
		assert.True(t, state.Draft.Equal(loaded.Draft), "draft should round-trip")
		assert.Nil(t, loaded.Submitted)
	})

	t.Run("Load Is Isolated From Caller", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Screen = domain.ScreenReviewing
		state.Submitted = domain.DefaultTripRequest()
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Submitted.GroupSize = 19

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, loaded.Submitted)
		assert.Equal(t, domain.DefaultGroupSize, loaded.Submitted.GroupSize, "mutating after Save must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})

	t.Run("List Includes Temp-Like IDs", func(t *testing.T) {
		id := "tmp-" + sessionID
		require.NoError(t, store.Save(ctx, id, domain.NewState(id)))
		defer func() { _ = store.Delete(ctx, id) }()

		_, err := store.Load(ctx, id)
		require.NoError(t, err)

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id)
	})
}
