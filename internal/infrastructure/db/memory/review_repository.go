package memory

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

// ReviewRepository stores reviews in insertion order.
type ReviewRepository struct {
	mu      sync.RWMutex
	nextID  int
	reviews []domain.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Insert(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	review.ID = strconv.Itoa(r.nextID)
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *ReviewRepository) List(_ context.Context, site string) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matching(site), nil
}

// Sample picks n reviews via a partial Fisher-Yates shuffle of the matches.
func (r *ReviewRepository) Sample(_ context.Context, site string, n int) ([]*domain.Review, error) {
	r.mu.RLock()
	matched := r.matching(site)
	r.mu.RUnlock()

	if n > len(matched) {
		n = len(matched)
	}
	for i := 0; i < n; i++ {
		j := i + rand.IntN(len(matched)-i)
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched[:n], nil
}

func (r *ReviewRepository) DeleteOne(_ context.Context, f ports.DeleteReviewFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rv := range r.reviews {
		if rv.Email != f.Email || rv.Timestamp != f.Timestamp {
			continue
		}
		if f.Site != "" && rv.Site != f.Site {
			continue
		}
		r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
		return nil
	}
	return domain.ErrReviewNotFound
}

// Len reports the number of stored reviews.
func (r *ReviewRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reviews)
}

// matching must be called with r.mu held.
func (r *ReviewRepository) matching(site string) []*domain.Review {
	out := make([]*domain.Review, 0, len(r.reviews))
	for i := range r.reviews {
		if site != "" && r.reviews[i].Site != site {
			continue
		}
		rv := r.reviews[i]
		out = append(out, &rv)
	}
	return out
}
