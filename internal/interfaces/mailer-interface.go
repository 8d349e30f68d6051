package interfaces

import (
	"context"

	"github.com/stortfordearlybirds/membership-service/internal/dto"
)

// Mailer sends transactional email. Each call returns the provider message id.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, fullName, password string) (string, error)
	SendLoginCodeEmail(ctx context.Context, to, code string) (string, error)
	SendApplicationEmail(ctx context.Context, app dto.MembershipApplication) (string, error)
}
