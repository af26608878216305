package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

// SubmissionDeduper abstracts the short-lived duplicate-submission store (Redis).
type SubmissionDeduper interface {
	// Claim records the submission and reports whether it was seen before
	// within the dedup window.
	Claim(ctx context.Context, site, email, review string) (duplicate bool, err error)
	// Release forgets a claim whose submission was not stored.
	Release(ctx context.Context, site, email, review string) error
}

type reviewService struct {
	repo        ports.ReviewRepository
	dedup       SubmissionDeduper
	strictScope bool
	now         func() time.Time
	log         zerolog.Logger
}

// ReviewServiceOption customises the review service.
type ReviewServiceOption func(*reviewService)

// WithDeduper enables duplicate-submission suppression.
func WithDeduper(d SubmissionDeduper) ReviewServiceOption {
	return func(s *reviewService) { s.dedup = d }
}

// WithSiteScope restricts listing and deletion to the token's own site.
func WithSiteScope(strict bool) ReviewServiceOption {
	return func(s *reviewService) { s.strictScope = strict }
}

// WithReviewClock replaces time.Now when stamping submissions.
func WithReviewClock(now func() time.Time) ReviewServiceOption {
	return func(s *reviewService) { s.now = now }
}

// NewReviewService returns a ReviewService implementation. Site scoping is on
// unless disabled with WithSiteScope(false).
func NewReviewService(repo ports.ReviewRepository, log zerolog.Logger, opts ...ReviewServiceOption) ports.ReviewService {
	s := &reviewService{
		repo:        repo,
		strictScope: true,
		now:         time.Now,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stamps and stores a new review. Identical re-submissions inside the
// dedup window are acknowledged without a second insert and reported as
// duplicate. A claim is released when the insert fails so a retry is stored.
func (s *reviewService) Submit(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error) {
	if in.Name == "" || in.Email == "" || in.Review == "" || in.Site == "" {
		return nil, false, domain.NewValidationError("Invalid input")
	}

	review := &domain.Review{
		Name:      in.Name,
		Email:     in.Email,
		Review:    in.Review,
		Site:      in.Site,
		Timestamp: domain.FormatTimestamp(s.now()),
	}

	claimed := false
	if s.dedup != nil {
		dup, err := s.dedup.Claim(ctx, in.Site, in.Email, in.Review)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("site", in.Site).Msg("dedup check failed, storing anyway")
		case dup:
			s.log.Debug().Str("site", in.Site).Str("email", in.Email).Msg("duplicate submission skipped")
			return review, true, nil
		default:
			claimed = true
		}
	}

	if err := s.repo.Insert(ctx, review); err != nil {
		if claimed {
			if rerr := s.dedup.Release(context.WithoutCancel(ctx), in.Site, in.Email, in.Review); rerr != nil {
				s.log.Warn().Err(rerr).Str("site", in.Site).Msg("dedup release failed")
			}
		}
		return nil, false, err
	}

	s.log.Info().Str("site", review.Site).Str("timestamp", review.Timestamp).Msg("review submitted")
	return review, false, nil
}

// List returns reviews for the requested site. Under strict scoping the site
// defaults to the caller's own and any other site is forbidden.
func (s *reviewService) List(ctx context.Context, in ports.ListReviewsInput) ([]*domain.Review, error) {
	site := in.Site
	if s.strictScope {
		if in.Claims == nil {
			return nil, domain.ErrNotAuthenticated
		}
		if site == "" {
			site = in.Claims.Site
		}
		if site != in.Claims.Site {
			return nil, domain.ErrForbidden
		}
	}

	reviews, err := s.repo.List(ctx, site)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

// RandomSample returns up to n reviews for site without repetition.
func (s *reviewService) RandomSample(ctx context.Context, site string, n int) ([]*domain.Review, error) {
	if site == "" {
		return nil, domain.NewValidationError("Site query parameter is required")
	}
	if n <= 0 {
		n = domain.DefaultSampleSize
	}

	reviews, err := s.repo.Sample(ctx, site, n)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

// Delete removes the review identified by (email, timestamp). Under strict
// scoping only reviews of the caller's site are eligible.
func (s *reviewService) Delete(ctx context.Context, in ports.DeleteReviewInput) error {
	if in.Email == "" || in.Timestamp == "" {
		return domain.NewValidationError("Missing email or timestamp")
	}

	filter := ports.DeleteReviewFilter{Email: in.Email, Timestamp: in.Timestamp}
	if s.strictScope {
		if in.Claims == nil {
			return domain.ErrNotAuthenticated
		}
		filter.Site = in.Claims.Site
	}

	if err := s.repo.DeleteOne(ctx, filter); err != nil {
		return err
	}

	s.log.Info().Str("email", in.Email).Str("timestamp", in.Timestamp).Msg("review deleted")
	return nil
}
