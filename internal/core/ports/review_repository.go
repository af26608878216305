package ports

import (
	"context"

	"github.com/reviewly/review-service/internal/core/domain"
)

// DeleteReviewFilter selects the single review removed by DeleteOne.
type DeleteReviewFilter struct {
	Email     string
	Timestamp string
	Site      string // empty = any site
}

// ReviewRepository persists reviews partitioned by site.
type ReviewRepository interface {
	Insert(ctx context.Context, review *domain.Review) error
	// List returns every review for site, or every review when site is empty.
	List(ctx context.Context, site string) ([]*domain.Review, error)
	// Sample returns up to n distinct reviews for site chosen uniformly at random.
	Sample(ctx context.Context, site string, n int) ([]*domain.Review, error)
	// DeleteOne removes one review matching filter or returns domain.ErrReviewNotFound.
	DeleteOne(ctx context.Context, filter DeleteReviewFilter) error
}
