package interfaces

import "context"

// IdentityProvider is the opaque authentication backend. SignUp is atomic on
// the backend side; DeleteAccount exists for saga compensation.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (string, error)
	DeleteAccount(ctx context.Context, accountID string) error
}
