package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

type stubReviewRepo struct {
	inserted   []*domain.Review
	insertErrs []error
	listSite   string
	listResult []*domain.Review
	sampleN    int
	deleted    []ports.DeleteReviewFilter
	deleteErr  error
	err        error
}

func (r *stubReviewRepo) Insert(_ context.Context, review *domain.Review) error {
	if r.err != nil {
		return r.err
	}
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		return err
	}
	review.ID = "rev-1"
	r.inserted = append(r.inserted, review)
	return nil
}

func (r *stubReviewRepo) List(_ context.Context, site string) ([]*domain.Review, error) {
	r.listSite = site
	return r.listResult, r.err
}

func (r *stubReviewRepo) Sample(_ context.Context, _ string, n int) ([]*domain.Review, error) {
	r.sampleN = n
	return nil, r.err
}

func (r *stubReviewRepo) DeleteOne(_ context.Context, f ports.DeleteReviewFilter) error {
	r.deleted = append(r.deleted, f)
	return r.deleteErr
}

type stubDeduper struct {
	seen map[string]bool
	err  error
}

func (d *stubDeduper) Claim(_ context.Context, site, email, review string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	key := site + "|" + email + "|" + review
	if d.seen[key] {
		return true, nil
	}
	d.seen[key] = true
	return false, nil
}

func (d *stubDeduper) Release(_ context.Context, site, email, review string) error {
	delete(d.seen, site+"|"+email+"|"+review)
	return nil
}

var (
	shopClaims = &domain.Claims{AccountID: "acc-1", Email: "owner@shop.example", Site: "shop.example"}
	validInput = ports.SubmitReviewInput{
		Name:   "Jane",
		Email:  "jane@example.com",
		Review: "Great service",
		Site:   "shop.example",
	}
)

func TestReviewService_Submit_StampsTimestamp(t *testing.T) {
	repo := &stubReviewRepo{}
	at := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC)
	svc := NewReviewService(repo, zerolog.Nop(), WithReviewClock(fixedClock(at)))

	review, duplicate, err := svc.Submit(context.Background(), validInput)
	require.NoError(t, err)
	assert.False(t, duplicate)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "2024-05-06T07:08:09.123Z", review.Timestamp)
	assert.Equal(t, "rev-1", review.ID)
	assert.Equal(t, "shop.example", repo.inserted[0].Site)
}

func TestReviewService_Submit_Validation(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{}, zerolog.Nop())

	for _, in := range []ports.SubmitReviewInput{
		{Email: "a@example.com", Review: "r", Site: "s"},
		{Name: "n", Review: "r", Site: "s"},
		{Name: "n", Email: "a@example.com", Site: "s"},
		{Name: "n", Email: "a@example.com", Review: "r"},
	} {
		_, _, err := svc.Submit(context.Background(), in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Invalid input", ve.Message)
	}
}

func TestReviewService_Submit_Dedup(t *testing.T) {
	t.Run("duplicate is acknowledged without insert", func(t *testing.T) {
		repo := &stubReviewRepo{}
		svc := NewReviewService(repo, zerolog.Nop(), WithDeduper(&stubDeduper{seen: map[string]bool{}}))

		_, duplicate, err := svc.Submit(context.Background(), validInput)
		require.NoError(t, err)
		assert.False(t, duplicate)
		_, duplicate, err = svc.Submit(context.Background(), validInput)
		require.NoError(t, err)
		assert.True(t, duplicate)

		assert.Len(t, repo.inserted, 1)
	})

	t.Run("failed insert releases the claim", func(t *testing.T) {
		repo := &stubReviewRepo{insertErrs: []error{errors.New("mongo timeout")}}
		dedup := &stubDeduper{seen: map[string]bool{}}
		svc := NewReviewService(repo, zerolog.Nop(), WithDeduper(dedup))

		_, _, err := svc.Submit(context.Background(), validInput)
		require.Error(t, err)
		assert.Empty(t, dedup.seen)

		_, duplicate, err := svc.Submit(context.Background(), validInput)
		require.NoError(t, err)
		assert.False(t, duplicate)
		assert.Len(t, repo.inserted, 1)
	})

	t.Run("dedup failure still stores", func(t *testing.T) {
		repo := &stubReviewRepo{}
		svc := NewReviewService(repo, zerolog.Nop(), WithDeduper(&stubDeduper{err: errors.New("redis down")}))

		_, duplicate, err := svc.Submit(context.Background(), validInput)
		require.NoError(t, err)
		assert.False(t, duplicate)
		assert.Len(t, repo.inserted, 1)
	})
}

func TestReviewService_Submit_StoreFailure(t *testing.T) {
	repo := &stubReviewRepo{err: errors.New("write failed")}
	svc := NewReviewService(repo, zerolog.Nop())

	_, _, err := svc.Submit(context.Background(), validInput)
	assert.Error(t, err)
}

func TestReviewService_List_StrictScope(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to own site", func(t *testing.T) {
		repo := &stubReviewRepo{}
		svc := NewReviewService(repo, zerolog.Nop())

		reviews, err := svc.List(ctx, ports.ListReviewsInput{Claims: shopClaims})
		require.NoError(t, err)
		assert.NotNil(t, reviews)
		assert.Empty(t, reviews)
		assert.Equal(t, "shop.example", repo.listSite)
	})

	t.Run("other site is forbidden", func(t *testing.T) {
		svc := NewReviewService(&stubReviewRepo{}, zerolog.Nop())

		_, err := svc.List(ctx, ports.ListReviewsInput{Site: "rival.example", Claims: shopClaims})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing claims", func(t *testing.T) {
		svc := NewReviewService(&stubReviewRepo{}, zerolog.Nop())

		_, err := svc.List(ctx, ports.ListReviewsInput{})
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestReviewService_List_BroadScope(t *testing.T) {
	ctx := context.Background()
	repo := &stubReviewRepo{listResult: []*domain.Review{{Site: "rival.example"}}}
	svc := NewReviewService(repo, zerolog.Nop(), WithSiteScope(false))

	reviews, err := svc.List(ctx, ports.ListReviewsInput{Site: "rival.example", Claims: shopClaims})
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, "rival.example", repo.listSite)

	_, err = svc.List(ctx, ports.ListReviewsInput{Claims: shopClaims})
	require.NoError(t, err)
	assert.Equal(t, "", repo.listSite)
}

func TestReviewService_RandomSample(t *testing.T) {
	ctx := context.Background()

	t.Run("requires site", func(t *testing.T) {
		svc := NewReviewService(&stubReviewRepo{}, zerolog.Nop())

		_, err := svc.RandomSample(ctx, "", 5)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Site query parameter is required", ve.Message)
	})

	t.Run("non-positive size uses default", func(t *testing.T) {
		repo := &stubReviewRepo{}
		svc := NewReviewService(repo, zerolog.Nop())

		reviews, err := svc.RandomSample(ctx, "shop.example", 0)
		require.NoError(t, err)
		assert.NotNil(t, reviews)
		assert.Equal(t, domain.DefaultSampleSize, repo.sampleN)
	})
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()
	in := ports.DeleteReviewInput{Email: "jane@example.com", Timestamp: "2024-05-06T07:08:09.123Z", Claims: shopClaims}

	t.Run("strict scope filters by site", func(t *testing.T) {
		repo := &stubReviewRepo{}
		svc := NewReviewService(repo, zerolog.Nop())

		require.NoError(t, svc.Delete(ctx, in))
		require.Len(t, repo.deleted, 1)
		assert.Equal(t, ports.DeleteReviewFilter{
			Email:     "jane@example.com",
			Timestamp: "2024-05-06T07:08:09.123Z",
			Site:      "shop.example",
		}, repo.deleted[0])
	})

	t.Run("broad scope ignores site", func(t *testing.T) {
		repo := &stubReviewRepo{}
		svc := NewReviewService(repo, zerolog.Nop(), WithSiteScope(false))

		require.NoError(t, svc.Delete(ctx, in))
		assert.Empty(t, repo.deleted[0].Site)
	})

	t.Run("missing key", func(t *testing.T) {
		svc := NewReviewService(&stubReviewRepo{}, zerolog.Nop())

		err := svc.Delete(ctx, ports.DeleteReviewInput{Email: "jane@example.com", Claims: shopClaims})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Missing email or timestamp", ve.Message)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewReviewService(&stubReviewRepo{deleteErr: domain.ErrReviewNotFound}, zerolog.Nop())

		assert.ErrorIs(t, svc.Delete(ctx, in), domain.ErrReviewNotFound)
	})
}
