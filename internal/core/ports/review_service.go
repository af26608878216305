package ports

import (
	"context"

	"github.com/reviewly/review-service/internal/core/domain"
)

// SubmitReviewInput is the DTO passed from the transport layer to ReviewService.
type SubmitReviewInput struct {
	Name   string
	Email  string
	Review string
	Site   string
}

// ListReviewsInput carries the optional site filter and the caller's claims.
type ListReviewsInput struct {
	Site   string
	Claims *domain.Claims
}

// DeleteReviewInput identifies a review by its natural key.
type DeleteReviewInput struct {
	Email     string
	Timestamp string
	Claims    *domain.Claims
}

// ReviewService defines use-case operations for reviews.
type ReviewService interface {
	// Submit reports duplicate=true when an identical submission was already
	// stored within the dedup window and nothing new was inserted.
	Submit(ctx context.Context, input SubmitReviewInput) (review *domain.Review, duplicate bool, err error)
	List(ctx context.Context, input ListReviewsInput) ([]*domain.Review, error)
	RandomSample(ctx context.Context, site string, n int) ([]*domain.Review, error)
	Delete(ctx context.Context, input DeleteReviewInput) error
}
