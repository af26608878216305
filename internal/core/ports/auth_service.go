package ports

import (
	"context"

	"github.com/reviewly/review-service/internal/core/domain"
)

// AuthService registers and authenticates site owners.
type AuthService interface {
	Register(ctx context.Context, name, email, site, password string) (string, *domain.Account, error)
	Authenticate(ctx context.Context, email, site, password string) (string, *domain.Account, error)
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(accountID, email, site string) (string, error)
	Verify(token string) (*domain.Claims, error)
}
