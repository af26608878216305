package ports

import (
	"context"

	"github.com/reviewly/review-service/internal/core/domain"
)

// AccountRepository persists site-owner accounts.
//
// Lookups return domain.ErrAccountNotFound when nothing matches. Create returns
// a *domain.ConflictError when the store's uniqueness constraint on site or
// email rejects the insert.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindBySite(ctx context.Context, site string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByEmailAndSite(ctx context.Context, email, site string) (*domain.Account, error)
}
