package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	got, err := store.LoadSession(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.SaveSession(ctx, "a", []byte(`{"active":"class"}`)))
	got, err = store.LoadSession(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":"class"}`, string(got))

	n, _ := store.CountSessions(ctx)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.DeleteSession(ctx, "a"))
	got, _ = store.LoadSession(ctx, "a")
	assert.Nil(t, got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.SaveSession(ctx, "a", []byte("x")))
	now = now.Add(2 * time.Minute)

	got, err := store.LoadSession(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
	n, _ := store.CountSessions(ctx)
	assert.Zero(t, n)
}

func TestMemoryStore_RejectsEmptyID(t *testing.T) {
	assert.Error(t, NewMemoryStore(0).SaveSession(context.Background(), "", nil))
}
