package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfarer/pkg/adapters/memory"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/persistence/middleware"
	"github.com/aretw0/wayfarer/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func collectingState(id, destination string) *domain.State {
	state := domain.NewState(id)
	state.Screen = domain.ScreenCollecting
	state.Step = domain.StepBudget
	state.Draft = domain.DefaultTripRequest()
	state.Draft.Destination = destination
	state.Revision = 3
	return state
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunStateStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	ctx := context.Background()
	original := collectingState("trip", "Goa")
	require.NoError(t, secure.Save(ctx, "trip", original))
	assert.Empty(t, original.Sealed, "caller state is untouched")
	assert.NotNil(t, original.Draft)

	stored, err := underlying.Load(ctx, "trip")
	require.NoError(t, err)
	assert.Nil(t, stored.Draft, "draft is only in the ciphertext")
	assert.NotEmpty(t, stored.Sealed)
	assert.NotContains(t, stored.Sealed, "Goa")
	assert.Equal(t, domain.ScreenCollecting, stored.Screen, "envelope stays observable")
	assert.Equal(t, 3, stored.Revision)

	loaded, err := secure.Load(ctx, "trip")
	require.NoError(t, err)
	assert.Empty(t, loaded.Sealed)
	require.NotNil(t, loaded.Draft)
	assert.Equal(t, "Goa", loaded.Draft.Destination)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "trip", collectingState("trip", "Goa")))

	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := newStore.Load(ctx, "trip")
	require.NoError(t, err)
	assert.Equal(t, "Goa", loaded.Draft.Destination)

	loaded.Draft.Destination = "Delhi"
	require.NoError(t, newStore.Save(ctx, "trip", loaded))

	_, err = oldStore.Load(ctx, "trip")
	assert.Error(t, err, "re-sealed with the new key")
}

func TestEncryptionMiddleware_SealBoundToSession(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "alice", collectingState("alice", "Goa")))
	require.NoError(t, secure.Save(ctx, "bob", collectingState("bob", "Delhi")))

	aliceEnvelope, err := underlying.Load(ctx, "alice")
	require.NoError(t, err)

	t.Run("swapped between sessions", func(t *testing.T) {
		require.NoError(t, underlying.Save(ctx, "bob", aliceEnvelope))
		_, err := secure.Load(ctx, "bob")
		assert.Error(t, err)
	})

	t.Run("cursor tampered", func(t *testing.T) {
		tampered := aliceEnvelope.Snapshot()
		tampered.Step = domain.StepInterests
		require.NoError(t, underlying.Save(ctx, "alice", tampered))
		_, err := secure.Load(ctx, "alice")
		assert.Error(t, err)
	})
}

func TestEncryptionMiddleware_PlainStateRejected(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", collectingState("plain", "Goa")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	parsed, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorContains(t, err, "32 bytes")
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.StateStore) ports.StateStore {
			order = append(order, name)
			return next
		}
	}

	store := memory.NewStore()
	assert.Same(t, store, middleware.Chain(store, tag("outer"), tag("inner")))
	assert.Equal(t, []string{"inner", "outer"}, order, "inner wraps the store first")
}
