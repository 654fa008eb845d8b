// Package otp holds pending one-time verification codes keyed by the
// email address a prospective user claims. Entries have a fixed expiry
// window, last-write-wins overwrite semantics (a resend invalidates the
// previous code immediately), and are consumed on first successful
// verification.
package otp

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	// CodeLength is the number of digits in an issued code.
	CodeLength = 6

	// DefaultTTL is the verification window for an issued code.
	DefaultTTL = 10 * time.Minute

	// DefaultSweepInterval is how often stale entries are reclaimed.
	// Purely a memory optimization: expiry is also enforced lazily at
	// verification time.
	DefaultSweepInterval = 5 * time.Minute
)

// ErrNotFound is returned when no pending verification exists for an email.
var ErrNotFound = errors.New("pending verification not found")

// PendingVerification links a claimed email address to an issued code
// and its absolute expiry.
type PendingVerification struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the entry's verification window has passed.
func (p *PendingVerification) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Store is the narrow interface the signup flow depends on. At most one
// live entry exists per email: Put overwrites unconditionally.
//
// Get returns entries even after their logical expiry (implementations
// may reclaim them eventually); the caller decides between "expired"
// and "absent" and deletes accordingly.
type Store interface {
	Put(ctx context.Context, pv PendingVerification) error
	Get(ctx context.Context, email string) (*PendingVerification, error)
	Delete(ctx context.Context, email string) error

	// Sweep removes entries past their expiry. Implementations backed
	// by a TTL-capable store may treat this as a no-op.
	Sweep(ctx context.Context) error
}

// normalizeEmail canonicalizes the store key so that issuance and
// verification agree on case and surrounding whitespace.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
