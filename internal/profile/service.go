// Package profile implements the second required signup step: attaching
// profile metadata to a freshly materialized account and activating it.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/priyanshinegi05/first-thought-api/internal/logging"
	"github.com/priyanshinegi05/first-thought-api/internal/user"
)

// MinInterests is the minimum number of topics a user must pick before
// their profile can be completed.
const MinInterests = 3

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrInsufficientInterests = fmt.Errorf("at least %d topics of interest are required", MinInterests)
)

// UserStore is the slice of the user repository this step needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	CompleteProfile(ctx context.Context, userID uuid.UUID, bio, avatar string, topics []string) (*user.User, error)
}

// CompletionHook runs after the profile transition has been committed.
// Hook failures are logged and swallowed; they never fail or roll back
// the completion itself.
type CompletionHook func(ctx context.Context, u *user.User) error

// Service handles profile retrieval and completion
type Service struct {
	users  UserStore
	hooks  []CompletionHook
	logger *logging.Logger
}

func NewService(users UserStore, logger *logging.Logger, hooks ...CompletionHook) *Service {
	return &Service{
		users:  users,
		hooks:  hooks,
		logger: logger,
	}
}

// Get loads the account for the profile-setup screen
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// CompleteParams carries the user-supplied profile attributes. Bio and
// avatar are optional; absent values persist as empty strings.
type CompleteParams struct {
	Bio              string
	Avatar           string
	TopicsOfInterest []string
}

// Complete applies the profile attributes and moves the account to
// Active. The interests invariant is checked before any mutation, so a
// rejected call leaves the profile untouched. Re-invocation overwrites
// the fields again; there is no "already completed" guard.
func (s *Service) Complete(ctx context.Context, userID uuid.UUID, params CompleteParams) (*user.User, error) {
	if len(params.TopicsOfInterest) < MinInterests {
		return nil, ErrInsufficientInterests
	}

	updated, err := s.users.CompleteProfile(ctx, userID, params.Bio, params.Avatar, params.TopicsOfInterest)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to complete profile: %w", err)
	}

	// Post-commit hooks: best-effort, never propagated.
	for _, hook := range s.hooks {
		if err := hook(ctx, updated); err != nil {
			s.logger.Warn("profile completion hook failed", "user_id", updated.ID, "error", err.Error())
		}
	}

	return updated, nil
}
