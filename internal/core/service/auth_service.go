package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

// AuthService implements registration and authentication of site owners.
type AuthService struct {
	repo   ports.AccountRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Register creates an account for site and returns a token for it.
//
// The site and email lookups are a best-effort early answer; the repository's
// uniqueness constraint is what actually rejects a racing duplicate.
func (s *AuthService) Register(ctx context.Context, name, email, site, password string) (string, *domain.Account, error) {
	if name == "" || email == "" || site == "" || password == "" {
		return "", nil, domain.NewValidationError("All fields are required")
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return "", nil, domain.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters long", domain.MinPasswordLength))
	}

	if err := s.checkAvailable(ctx, email, site); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", nil, domain.NewValidationError("Password must be at most 72 bytes long")
	}
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		Site:         site,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Email, created.Site)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("site", created.Site).Msg("account registered")
	return token, created, nil
}

// checkAvailable looks up site and email concurrently. A site collision is
// reported ahead of an email collision and ahead of a failed email lookup.
func (s *AuthService) checkAvailable(ctx context.Context, email, site string) error {
	var (
		siteTaken, emailTaken bool
		siteErr, emailErr     error
		g                     errgroup.Group
	)
	g.Go(func() error {
		siteTaken, siteErr = s.exists(ctx, s.repo.FindBySite, site)
		return siteErr
	})
	g.Go(func() error {
		emailTaken, emailErr = s.exists(ctx, s.repo.FindByEmail, email)
		return emailErr
	})
	_ = g.Wait()

	switch {
	case siteErr != nil:
		return siteErr
	case siteTaken:
		return &domain.ConflictError{Field: domain.FieldSite}
	case emailErr != nil:
		return emailErr
	case emailTaken:
		return &domain.ConflictError{Field: domain.FieldEmail}
	}
	return nil
}

func (s *AuthService) exists(ctx context.Context, find func(context.Context, string) (*domain.Account, error), key string) (bool, error) {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrAccountNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Authenticate verifies the password of the account registered for (email, site).
// An unknown account and a wrong password yield the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, site, password string) (string, *domain.Account, error) {
	if email == "" || site == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmailAndSite(ctx, email, site)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Email, account.Site)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, account, nil
}
