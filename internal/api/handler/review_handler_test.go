package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewly/review-service/internal/api/metrics"
	"github.com/reviewly/review-service/internal/api/middleware"
	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

type stubReviewService struct {
	submitFn func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error)
	listFn   func(ctx context.Context, in ports.ListReviewsInput) ([]*domain.Review, error)
	sampleFn func(ctx context.Context, site string, n int) ([]*domain.Review, error)
	deleteFn func(ctx context.Context, in ports.DeleteReviewInput) error
}

func (s *stubReviewService) Submit(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error) {
	return s.submitFn(ctx, in)
}

func (s *stubReviewService) List(ctx context.Context, in ports.ListReviewsInput) ([]*domain.Review, error) {
	return s.listFn(ctx, in)
}

func (s *stubReviewService) RandomSample(ctx context.Context, site string, n int) ([]*domain.Review, error) {
	return s.sampleFn(ctx, site, n)
}

func (s *stubReviewService) Delete(ctx context.Context, in ports.DeleteReviewInput) error {
	return s.deleteFn(ctx, in)
}

var testClaims = &domain.Claims{AccountID: "1", Email: "owner@shop.example", Site: "shop.example"}

func newValidatingEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestReviewHandler_Submit_Success(t *testing.T) {
	e := newValidatingEcho()
	var got ports.SubmitReviewInput
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error) {
			got = in
			return &domain.Review{ID: "r1"}, false, nil
		},
	}
	handler := NewReviewHandler(stub, testMetrics())

	c, rec := newJSONContext(e, http.MethodPost, "/submit-review",
		`{"name":"Jane","email":"jane@example.com","review":"Great","site":"shop.example"}`)

	require.NoError(t, handler.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Review submitted successfully"}`, rec.Body.String())
	assert.Equal(t, ports.SubmitReviewInput{Name: "Jane", Email: "jane@example.com", Review: "Great", Site: "shop.example"}, got)
}

func TestReviewHandler_Submit_CountsOnlyStoredReviews(t *testing.T) {
	duplicate := false
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error) {
			return &domain.Review{ID: "r1"}, duplicate, nil
		},
	}
	reg := prometheus.NewRegistry()
	handler := NewReviewHandler(stub, metrics.New(reg))
	body := `{"name":"Jane","email":"jane@example.com","review":"Great","site":"shop.example"}`

	c, rec := newJSONContext(newValidatingEcho(), http.MethodPost, "/submit-review", body)
	require.NoError(t, handler.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	duplicate = true
	c, rec = newJSONContext(newValidatingEcho(), http.MethodPost, "/submit-review", body)
	require.NoError(t, handler.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, 1.0, counterValue(t, reg, "reviews_submitted_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "reviews_duplicate_total"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.NotEmpty(t, mf.GetMetric())
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestReviewHandler_Submit_InvalidInput(t *testing.T) {
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error) {
			t.Fatalf("should not be called")
			return nil, false, nil
		},
	}
	handler := NewReviewHandler(stub, testMetrics())

	for _, body := range []string{
		`{"name":"Jane","email":"jane@example.com","review":"Great"}`,
		`{"name":"","email":"jane@example.com","review":"Great","site":"s"}`,
		`not-json`,
	} {
		c, _ := newJSONContext(newValidatingEcho(), http.MethodPost, "/submit-review", body)

		err := handler.Submit(c)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, body)
		assert.Equal(t, "Invalid input", ve.Message)
	}
}

func TestReviewHandler_Submit_StoreFailure(t *testing.T) {
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, bool, error) {
			return nil, false, errors.New("insert failed")
		},
	}
	handler := NewReviewHandler(stub, testMetrics())

	c, _ := newJSONContext(newValidatingEcho(), http.MethodPost, "/submit-review",
		`{"name":"Jane","email":"jane@example.com","review":"Great","site":"shop.example"}`)

	err := handler.Submit(c)
	var se *domain.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Could not save review", se.Message)
}

func TestReviewHandler_List(t *testing.T) {
	e := echo.New()
	stub := &stubReviewService{
		listFn: func(ctx context.Context, in ports.ListReviewsInput) ([]*domain.Review, error) {
			assert.Equal(t, "shop.example", in.Site)
			assert.Same(t, testClaims, in.Claims)
			return []*domain.Review{{
				ID: "r1", Name: "Jane", Email: "jane@example.com", Review: "Great",
				Site: "shop.example", Timestamp: "2024-05-06T07:08:09.123Z",
			}}, nil
		},
	}
	handler := NewReviewHandler(stub, testMetrics())

	req := httptest.NewRequest(http.MethodGet, "/reviews?site=shop.example", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ClaimsKey, testClaims)

	require.NoError(t, handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "r1", body[0]["_id"])
	assert.Equal(t, "2024-05-06T07:08:09.123Z", body[0]["timestamp"])
}

func TestReviewHandler_List_WithoutClaims(t *testing.T) {
	handler := NewReviewHandler(&stubReviewService{}, testMetrics())

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	assert.ErrorIs(t, handler.List(c), domain.ErrNotAuthenticated)
}

func TestReviewHandler_RandomSample_EmptyIsArray(t *testing.T) {
	stub := &stubReviewService{
		sampleFn: func(ctx context.Context, site string, n int) ([]*domain.Review, error) {
			assert.Equal(t, "shop.example", site)
			assert.Equal(t, domain.DefaultSampleSize, n)
			return nil, nil
		},
	}
	handler := NewReviewHandler(stub, testMetrics())

	req := httptest.NewRequest(http.MethodGet, "/random-reviews?site=shop.example", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, handler.RandomSample(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestReviewHandler_Delete(t *testing.T) {
	stub := &stubReviewService{
		deleteFn: func(ctx context.Context, in ports.DeleteReviewInput) error {
			if in.Timestamp == "missing" {
				return domain.ErrReviewNotFound
			}
			assert.Equal(t, "jane@example.com", in.Email)
			return nil
		},
	}
	handler := NewReviewHandler(stub, testMetrics())

	t.Run("deleted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/deleteReview?email=jane@example.com&timestamp=2024-05-06T07:08:09.123Z", nil)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		c.Set(middleware.ClaimsKey, testClaims)

		require.NoError(t, handler.Delete(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Review deleted successfully"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/deleteReview?email=jane@example.com&timestamp=missing", nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.Set(middleware.ClaimsKey, testClaims)

		assert.ErrorIs(t, handler.Delete(c), domain.ErrReviewNotFound)
	})
}
