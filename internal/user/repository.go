package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/priyanshinegi05/first-thought-api/internal/database"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// CreateParams carries the fields needed to materialize an account.
type CreateParams struct {
	Email        string
	Username     string
	FullName     string
	PasswordHash string
}

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user with an incomplete profile. Uniqueness of
// email and username is enforced by the database indexes; violations
// are translated here rather than leaked as raw storage errors.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*User, error) {
	dbUser := &database.User{
		Email:            params.Email,
		Username:         params.Username,
		FullName:         params.FullName,
		PasswordHash:     params.PasswordHash,
		TopicsOfInterest: []string{},
		ProfileState:     string(ProfileStateIncomplete),
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("lower(email) = lower(?)", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// UsernameExists reports whether a username is already taken.
// Advisory only: the unique index is what actually prevents a race
// between two concurrent signups for the same username.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("lower(username) = lower(?)", username).
		Count(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return count > 0, nil
}

// CompleteProfile persists the profile fields and activates the
// account in a single update.
func (r *Repository) CompleteProfile(ctx context.Context, userID uuid.UUID, bio, avatar string, topics []string) (*User, error) {
	dbUser := new(database.User)
	result, err := r.db.NewUpdate().
		Model(dbUser).
		Set("bio = ?", bio).
		Set("avatar = ?", avatar).
		Set("topics_of_interest = ?", pgdialect.Array(topics)).
		Set("profile_state = ?", string(ProfileStateActive)).
		Set("updated_at = NOW()").
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to complete profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBUserToModel(dbUser), nil
}

// translateUniqueViolation maps a Postgres unique-constraint error to a
// domain error, or nil if the error is something else.
func translateUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value violates unique constraint") {
		return nil
	}
	if strings.Contains(msg, "users_username_key") {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	topics := dbu.TopicsOfInterest
	if topics == nil {
		topics = []string{}
	}

	return &User{
		ID:               dbu.ID,
		Email:            dbu.Email,
		Username:         dbu.Username,
		FullName:         dbu.FullName,
		PasswordHash:     dbu.PasswordHash,
		Bio:              dbu.Bio,
		Avatar:           dbu.Avatar,
		TopicsOfInterest: topics,
		ProfileState:     ProfileState(dbu.ProfileState),
		CreatedAt:        dbu.CreatedAt,
		UpdatedAt:        dbu.UpdatedAt,
	}
}
