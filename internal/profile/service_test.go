package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshinegi05/first-thought-api/internal/logging"
	"github.com/priyanshinegi05/first-thought-api/internal/user"
)

type fakeUserStore struct {
	users       map[uuid.UUID]*user.User
	completeCnt int
	completeErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserStore) add(u *user.User) *user.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.ProfileState == "" {
		u.ProfileState = user.ProfileStateIncomplete
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) CompleteProfile(ctx context.Context, userID uuid.UUID, bio, avatar string, topics []string) (*user.User, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}

	u, ok := f.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}

	f.completeCnt++
	u.Bio = bio
	u.Avatar = avatar
	u.TopicsOfInterest = topics
	u.ProfileState = user.ProfileStateActive
	u.UpdatedAt = time.Now()
	return u, nil
}

func validParams() CompleteParams {
	return CompleteParams{
		Bio:              "I write about systems",
		Avatar:           "https://cdn.example.com/a.png",
		TopicsOfInterest: []string{"go", "databases", "writing"},
	}
}

func TestComplete_Success(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	svc := NewService(store, logging.NewLogger(true))

	updated, err := svc.Complete(ctx, u.ID, validParams())
	require.NoError(t, err)

	assert.Equal(t, user.ProfileStateActive, updated.ProfileState)
	assert.Equal(t, "I write about systems", updated.Bio)
	assert.Equal(t, []string{"go", "databases", "writing"}, updated.TopicsOfInterest)
}

func TestComplete_InsufficientInterests(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	svc := NewService(store, logging.NewLogger(true))

	params := validParams()
	params.TopicsOfInterest = []string{"go", "databases"}

	_, err := svc.Complete(ctx, u.ID, params)
	assert.ErrorIs(t, err, ErrInsufficientInterests)

	// Rejected before any mutation: state and fields untouched.
	assert.Equal(t, 0, store.completeCnt)
	assert.Equal(t, user.ProfileStateIncomplete, store.users[u.ID].ProfileState)
	assert.Empty(t, store.users[u.ID].Bio)
}

func TestComplete_ExactlyMinInterests(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	svc := NewService(store, logging.NewLogger(true))

	params := validParams()
	require.Len(t, params.TopicsOfInterest, MinInterests)

	updated, err := svc.Complete(ctx, u.ID, params)
	require.NoError(t, err)
	assert.Equal(t, user.ProfileStateActive, updated.ProfileState)
}

func TestComplete_AccountNotFound(t *testing.T) {
	svc := NewService(newFakeUserStore(), logging.NewLogger(true))

	_, err := svc.Complete(context.Background(), uuid.New(), validParams())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestComplete_Reinvocation(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	svc := NewService(store, logging.NewLogger(true))

	_, err := svc.Complete(ctx, u.ID, validParams())
	require.NoError(t, err)

	// Completion is idempotent by overwrite, not rejected.
	params := CompleteParams{
		Bio:              "updated bio",
		TopicsOfInterest: []string{"go", "sql", "redis", "writing"},
	}
	updated, err := svc.Complete(ctx, u.ID, params)
	require.NoError(t, err)
	assert.Equal(t, user.ProfileStateActive, updated.ProfileState)
	assert.Equal(t, "updated bio", updated.Bio)
	assert.Empty(t, updated.Avatar)
}

func TestComplete_HookRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	var hookCalls int
	var hookState user.ProfileState
	svc := NewService(store, logging.NewLogger(true), func(ctx context.Context, u *user.User) error {
		hookCalls++
		hookState = u.ProfileState
		return nil
	})

	_, err := svc.Complete(ctx, u.ID, validParams())
	require.NoError(t, err)

	assert.Equal(t, 1, hookCalls)
	assert.Equal(t, user.ProfileStateActive, hookState)
}

func TestComplete_HookFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	svc := NewService(store, logging.NewLogger(true), func(ctx context.Context, u *user.User) error {
		return errors.New("notification backend down")
	})

	updated, err := svc.Complete(ctx, u.ID, validParams())
	require.NoError(t, err)
	assert.Equal(t, user.ProfileStateActive, updated.ProfileState)
}

func TestComplete_HookNotRunOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	var hookCalls int
	svc := NewService(store, logging.NewLogger(true), func(ctx context.Context, u *user.User) error {
		hookCalls++
		return nil
	})

	params := validParams()
	params.TopicsOfInterest = nil
	_, err := svc.Complete(ctx, u.ID, params)
	assert.ErrorIs(t, err, ErrInsufficientInterests)
	assert.Equal(t, 0, hookCalls)

	store.completeErr = errors.New("db down")
	_, err = svc.Complete(ctx, u.ID, validParams())
	assert.Error(t, err)
	assert.Equal(t, 0, hookCalls)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	u := store.add(&user.User{Email: "new@example.com", Username: "newuser"})

	svc := NewService(store, logging.NewLogger(true))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
