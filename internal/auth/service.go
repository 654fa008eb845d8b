package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/priyanshinegi05/first-thought-api/internal/logging"
	"github.com/priyanshinegi05/first-thought-api/internal/otp"
	"github.com/priyanshinegi05/first-thought-api/internal/user"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrOTPRequired        = errors.New("otp is required")

	ErrAlreadyRegistered     = errors.New("user with this email already exists")
	ErrDeliveryFailed        = errors.New("failed to deliver verification code")
	ErrNoPendingVerification = errors.New("no verification code requested for this email")
	ErrCodeExpired           = errors.New("verification code has expired")
	ErrCodeMismatch          = errors.New("invalid verification code")
	ErrUsernameTaken         = errors.New("username is already taken")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the slice of the user repository the signup flow needs.
type UserStore interface {
	Create(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// DeliveryGateway abstracts outbound transactional email. The signup
// flow only depends on its success/failure signal.
type DeliveryGateway interface {
	SendOTPEmail(ctx context.Context, toEmail, code string) error
}

// Service handles the OTP-gated signup flow and login
type Service struct {
	users           UserStore
	pending         otp.Store
	gateway         DeliveryGateway
	tokens          TokenService
	logger          *logging.Logger
	otpTTL          time.Duration
	sessionDuration time.Duration
	now             func() time.Time
}

func NewService(
	users UserStore,
	pending otp.Store,
	gateway DeliveryGateway,
	tokens TokenService,
	logger *logging.Logger,
	otpTTL time.Duration,
	sessionDuration time.Duration,
) *Service {
	return &Service{
		users:           users,
		pending:         pending,
		gateway:         gateway,
		tokens:          tokens,
		logger:          logger,
		otpTTL:          otpTTL,
		sessionDuration: sessionDuration,
		now:             time.Now,
	}
}

// IssueCode generates a 6-digit code for an unclaimed email, stores it
// with a fresh expiry, and hands it to the delivery gateway. Issuing
// again before expiry silently invalidates the previous code.
func (s *Service) IssueCode(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	// Overwrite before delivery: a resend must make the previous code
	// unverifiable even if this delivery attempt fails.
	err = s.pending.Put(ctx, otp.PendingVerification{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.gateway.SendOTPEmail(ctx, email, code); err != nil {
		// The pending entry stays in place; the user can request a resend.
		s.logger.Warn("failed to deliver verification code", "email", email, "error", err.Error())
		return ErrDeliveryFailed
	}

	return nil
}

// VerifyParams carries the fields presented at the verification gate.
type VerifyParams struct {
	Email    string
	Code     string
	Username string
	Password string
	FullName string
}

// Verify checks the presented code against the pending store and, on
// success, materializes the account and issues a session token. The
// code is consumed on first successful match; a mismatch keeps the
// entry so the user can retry within the expiry window.
func (s *Service) Verify(ctx context.Context, params VerifyParams) (*user.User, string, error) {
	if err := validateEmail(params.Email); err != nil {
		return nil, "", err
	}
	if params.Code == "" {
		return nil, "", ErrOTPRequired
	}
	if params.Username == "" {
		return nil, "", ErrUsernameRequired
	}
	if params.Password == "" {
		return nil, "", ErrPasswordRequired
	}
	if len(params.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	pv, err := s.pending.Get(ctx, params.Email)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return nil, "", ErrNoPendingVerification
		}
		return nil, "", fmt.Errorf("failed to get pending verification: %w", err)
	}

	if pv.Expired(s.now()) {
		if err := s.pending.Delete(ctx, params.Email); err != nil {
			s.logger.Warn("failed to delete expired verification", "email", params.Email, "error", err.Error())
		}
		return nil, "", ErrCodeExpired
	}

	if pv.Code != params.Code {
		return nil, "", ErrCodeMismatch
	}

	// Consume before materializing so the code can never be replayed,
	// even if account creation fails below.
	if err := s.pending.Delete(ctx, params.Email); err != nil {
		return nil, "", fmt.Errorf("failed to consume verification code: %w", err)
	}

	taken, err := s.users.UsernameExists(ctx, params.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	return s.materialize(ctx, params)
}

// materialize provisions the durable account record with an incomplete
// profile and issues the session credential bound to it.
func (s *Service) materialize(ctx context.Context, params VerifyParams) (*user.User, string, error) {
	passwordHash, err := HashPassword(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, user.CreateParams{
		Email:        params.Email,
		Username:     params.Username,
		FullName:     params.FullName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// The unique indexes are the authority here; translate their
		// violations instead of leaking storage errors. Two racing
		// verifications for the same handle both reach this insert,
		// but only one wins.
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", ErrAlreadyRegistered
		}
		if errors.Is(err, user.ErrDuplicateUsername) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID, newUser.Email, s.sessionDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	return newUser, token, nil
}

// Login authenticates an existing user and issues a session token
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, existingUser.Email, s.sessionDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	return existingUser, token, nil
}

// CurrentUser loads the account behind an authenticated session
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > 254 {
		return ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmailFormat
	}
	return nil
}
