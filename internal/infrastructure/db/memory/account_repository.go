// Package memory provides process-local repositories used by tests and by
// STORE_DRIVER=memory. Data does not survive a restart.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/reviewly/review-service/internal/core/domain"
)

// AccountRepository keeps accounts in maps indexed by site and email, which
// gives it the same uniqueness guarantees as the Mongo indexes.
type AccountRepository struct {
	mu      sync.RWMutex
	nextID  int
	bySite  map[string]*domain.Account
	byEmail map[string]*domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		bySite:  make(map[string]*domain.Account),
		byEmail: make(map[string]*domain.Account),
	}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySite[account.Site]; ok {
		return nil, &domain.ConflictError{Field: domain.FieldSite}
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, &domain.ConflictError{Field: domain.FieldEmail}
	}

	r.nextID++
	stored := *account
	stored.ID = strconv.Itoa(r.nextID)
	r.bySite[stored.Site] = &stored
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *AccountRepository) FindBySite(_ context.Context, site string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.bySite[site])
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.byEmail[email])
}

func (r *AccountRepository) FindByEmailAndSite(_ context.Context, email, site string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a := r.bySite[site]
	if a == nil || a.Email != email {
		return nil, domain.ErrAccountNotFound
	}
	return clone(a)
}

func clone(a *domain.Account) (*domain.Account, error) {
	if a == nil {
		return nil, domain.ErrAccountNotFound
	}
	out := *a
	return &out, nil
}
