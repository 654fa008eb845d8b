package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	expiry := time.Now().Add(DefaultTTL)
	err := store.Put(ctx, PendingVerification{
		Email:     "user@example.com",
		Code:      "042137",
		ExpiresAt: expiry,
	})
	require.NoError(t, err)

	pv, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "042137", pv.Code)
	assert.Equal(t, expiry, pv.ExpiresAt)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Put(ctx, PendingVerification{
		Email:     "  User@Example.COM ",
		Code:      "123456",
		ExpiresAt: time.Now().Add(DefaultTTL),
	})
	require.NoError(t, err)

	pv, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", pv.Code)
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := PendingVerification{Email: "user@example.com", Code: "111111", ExpiresAt: time.Now().Add(time.Minute)}
	second := PendingVerification{Email: "user@example.com", Code: "222222", ExpiresAt: time.Now().Add(DefaultTTL)}

	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	pv, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", pv.Code)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, PendingVerification{
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(DefaultTTL),
	}))
	require.NoError(t, store.Delete(ctx, "user@example.com"))

	_, err := store.Get(ctx, "user@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing entry is not an error.
	assert.NoError(t, store.Delete(ctx, "user@example.com"))
}

func TestMemoryStore_GetReturnsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, PendingVerification{
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	// Expiry is the caller's decision; the store still returns the entry.
	pv, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, pv.Expired(time.Now()))
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, PendingVerification{
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(DefaultTTL),
	}))

	pv, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	pv.Code = "999999"

	again, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", again.Code)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	require.NoError(t, store.Put(ctx, PendingVerification{
		Email:     "stale@example.com",
		Code:      "111111",
		ExpiresAt: base.Add(-time.Second),
	}))
	require.NoError(t, store.Put(ctx, PendingVerification{
		Email:     "fresh@example.com",
		Code:      "222222",
		ExpiresAt: base.Add(DefaultTTL),
	}))

	require.NoError(t, store.Sweep(ctx))

	assert.Equal(t, 1, store.Len())
	_, err := store.Get(ctx, "stale@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "fresh@example.com")
	assert.NoError(t, err)
}
