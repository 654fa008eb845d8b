package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/priyanshinegi05/first-thought-api/internal/logging"
	"github.com/priyanshinegi05/first-thought-api/internal/user"
)

// Store persists notification rows.
type Store interface {
	Create(ctx context.Context, userID uuid.UUID, typ, message string) error
}

// WelcomeMailer delivers the welcome email.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
}

// Service fans out notifications. Everything here is best-effort: the
// state transitions that trigger notifications must never fail or roll
// back because delivery did.
type Service struct {
	store  Store
	mailer WelcomeMailer
	logger *logging.Logger
}

func NewService(store Store, mailer WelcomeMailer, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

// SendWelcome records an in-app welcome notification and sends the
// welcome email. The email goes out in a goroutine with a fresh
// context so a cancelled request cannot abort it.
func (s *Service) SendWelcome(ctx context.Context, u *user.User) error {
	message := fmt.Sprintf("Welcome to First Thought, %s! Your profile is all set.", u.FullName)

	if err := s.store.Create(ctx, u.ID, TypeWelcome, message); err != nil {
		return fmt.Errorf("failed to store welcome notification: %w", err)
	}

	email := u.Email
	fullName := u.FullName
	go func() {
		emailCtx := context.Background()
		if err := s.mailer.SendWelcomeEmail(emailCtx, email, fullName); err != nil {
			s.logger.Warn("failed to send welcome email", "email", email, "error", err)
		}
	}()

	return nil
}
