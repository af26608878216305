package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reviewly/review-service/internal/api/metrics"
	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

// ReviewHandler handles HTTP requests for review operations.
type ReviewHandler struct {
	service ports.ReviewService
	metrics *metrics.Metrics
}

func NewReviewHandler(service ports.ReviewService, m *metrics.Metrics) *ReviewHandler {
	return &ReviewHandler{service: service, metrics: m}
}

// List handles GET /reviews.
//
// @Summary      List reviews of a site
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        site  query     string  false  "Site hostname; defaults to the token's site"
// @Success      200   {array}   reviewResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	reviews, err := h.service.List(c.Request().Context(), ports.ListReviewsInput{
		Site:   c.QueryParam("site"),
		Claims: claims,
	})
	if err != nil {
		return failure("Could not fetch reviews", err)
	}

	return c.JSON(http.StatusOK, toReviewsResponse(reviews))
}

// RandomSample handles GET /random-reviews. Public, returns up to five reviews.
//
// @Summary      Random sample of reviews for the widget
// @Tags         reviews
// @Produce      json
// @Param        site  query     string  true  "Site hostname"
// @Success      200   {array}   reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /random-reviews [get]
func (h *ReviewHandler) RandomSample(c echo.Context) error {
	reviews, err := h.service.RandomSample(c.Request().Context(), c.QueryParam("site"), domain.DefaultSampleSize)
	if err != nil {
		return failure("Could not fetch reviews", err)
	}

	h.metrics.SampleSize.Observe(float64(len(reviews)))
	return c.JSON(http.StatusOK, toReviewsResponse(reviews))
}

// Submit handles POST /submit-review, no auth.
//
// @Summary      Submit a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body      submitReviewRequest  true  "Review"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /submit-review [post]
func (h *ReviewHandler) Submit(c echo.Context) error {
	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		c.Logger().Debug(err)
		return domain.NewValidationError("Invalid input")
	}

	_, duplicate, err := h.service.Submit(c.Request().Context(), toSubmitInput(req))
	if err != nil {
		return failure("Could not save review", err)
	}

	if duplicate {
		h.metrics.ReviewsDuplicateTotal.Inc()
	} else {
		h.metrics.ReviewsSubmittedTotal.Inc()
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Review submitted successfully"})
}

// Delete handles DELETE /deleteReview?email=&timestamp=.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        email      query     string  true  "Submitter email"
// @Param        timestamp  query     string  true  "Review timestamp as returned by the API"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      500        {object}  errorResponse
// @Router       /deleteReview [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), ports.DeleteReviewInput{
		Email:     c.QueryParam("email"),
		Timestamp: c.QueryParam("timestamp"),
		Claims:    claims,
	})
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			h.metrics.ReviewsDeletedTotal.WithLabelValues("not_found").Inc()
		}
		return failure("Could not delete review", err)
	}

	h.metrics.ReviewsDeletedTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted successfully"})
}
