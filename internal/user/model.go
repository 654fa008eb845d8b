package user

import (
	"time"

	"github.com/google/uuid"
)

// ProfileState tracks the account lifecycle after OTP verification.
// A freshly materialized account is Incomplete until the profile-setup
// step runs; Active is terminal for this subsystem.
type ProfileState string

const (
	ProfileStateIncomplete ProfileState = "incomplete"
	ProfileStateActive     ProfileState = "active"
)

// CanTransitionTo reports whether a state change is allowed. The only
// forward transition is Incomplete -> Active; Active -> Active is
// permitted because profile completion is idempotent by overwrite.
func (s ProfileState) CanTransitionTo(target ProfileState) bool {
	switch {
	case s == ProfileStateIncomplete && target == ProfileStateActive:
		return true
	case s == ProfileStateActive && target == ProfileStateActive:
		return true
	default:
		return false
	}
}

// User is the domain model for an account. JSON tags follow the
// frontend contract (camelCase).
type User struct {
	ID               uuid.UUID    `json:"id"`
	Email            string       `json:"email"`
	Username         string       `json:"username"`
	FullName         string       `json:"fullName"`
	PasswordHash     string       `json:"-"` // Never expose password hash in JSON
	Bio              string       `json:"bio"`
	Avatar           string       `json:"avatar"`
	TopicsOfInterest []string     `json:"topicsOfInterest"`
	ProfileState     ProfileState `json:"profileState"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}
