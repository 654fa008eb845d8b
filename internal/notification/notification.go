package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/priyanshinegi05/first-thought-api/internal/database"
)

const TypeWelcome = "welcome"

// Notification is an in-app notification row.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository handles notification persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a notification for a user
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, typ, message string) error {
	dbNotification := &database.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
	}

	_, err := r.db.NewInsert().
		Model(dbNotification).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}
