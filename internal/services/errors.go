package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Workflow failure classes. Every submission attempt resolves to at most one
// of these; handlers turn each into exactly one user-visible message.
var (
	// ErrDuplicateAccount: the email already has an account. Nothing was
	// created; the applicant should log in instead.
	ErrDuplicateAccount = errors.New("an account with this email already exists")

	// ErrProvisioningFailed: the identity backend rejected or never received
	// the sign-up. Nothing downstream was attempted; resubmission is safe.
	ErrProvisioningFailed = errors.New("could not create the account")

	// ErrPersistenceFailed: the account exists but the profile or role row
	// could not be written. Distinct from ErrProvisioningFailed because the
	// identity now exists (compensated or queued for reconciliation).
	ErrPersistenceFailed = errors.New("account record could not be completed")

	// ErrNotificationFailed: everything was created but the welcome email
	// did not go out. Not fatal; the account must not be rolled back.
	ErrNotificationFailed = errors.New("account created but the welcome email failed")

	// ErrRateLimited: the one-time-code send is throttled. Rendered as a
	// countdown, not a failure.
	ErrRateLimited = errors.New("login code requests are rate limited")

	ErrInvalidLoginCode = errors.New("invalid or expired login code")
	ErrUnknownMember    = errors.New("no member found for this email")
)

// ValidationError carries the per-field messages from the input validator.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
