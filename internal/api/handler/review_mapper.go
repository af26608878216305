package handler

import (
	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

func toSubmitInput(req submitReviewRequest) ports.SubmitReviewInput {
	return ports.SubmitReviewInput{
		Name:   req.Name,
		Email:  req.Email,
		Review: req.Review,
		Site:   req.Site,
	}
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Review:    r.Review,
		Site:      r.Site,
		Timestamp: r.Timestamp,
	}
}

// toReviewsResponse never returns nil so an empty result encodes as [].
func toReviewsResponse(reviews []*domain.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = toReviewResponse(r)
	}
	return out
}
