package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email            string    `bun:"email,notnull"`
	Username         string    `bun:"username,notnull"`
	FullName         string    `bun:"full_name,notnull"`
	PasswordHash     string    `bun:"password_hash,notnull"`
	Bio              string    `bun:"bio,notnull,default:''"`
	Avatar           string    `bun:"avatar,notnull,default:''"`
	TopicsOfInterest []string  `bun:"topics_of_interest,array"`
	ProfileState     string    `bun:"profile_state,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Notification is the bun model for the notifications table
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Type      string    `bun:"type,notnull"`
	Message   string    `bun:"message,notnull"`
	Read      bool      `bun:"read,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
