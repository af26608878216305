package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/reviewly/review-service/internal/api/middleware"
	"github.com/reviewly/review-service/internal/core/domain"
)

// ctxClaims returns the claims injected by the Auth middleware. Their absence
// means the route was mounted without the middleware; treat it as unauthenticated.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*domain.Claims)
	if !ok || claims == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return claims, nil
}

// failure passes client-facing domain errors through and wraps anything else
// with the operation's generic message, keeping internals out of the response.
func failure(msg string, err error) error {
	if domain.IsClientError(err) {
		return err
	}
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	return domain.NewStoreError(msg, err)
}
