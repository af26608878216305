package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reviewly/review-service/internal/api/metrics"
	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService ports.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// Register creates an account for a site and returns a token for it.
//
// @Summary      Register a site owner
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return domain.NewValidationError("Invalid request body")
	}

	token, _, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Site, req.Password)
	if err != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return failure("Could not register user", err)
	}

	h.metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		Token:   token,
	})
}

// Authenticate exchanges (email, site, password) for a token.
//
// @Summary      Authenticate a site owner
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  authenticateResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.AuthenticationsTotal.WithLabelValues("invalid_credentials").Inc()
		return domain.ErrInvalidCredentials
	}

	token, _, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Site, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.AuthenticationsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			h.metrics.AuthenticationsTotal.WithLabelValues("error").Inc()
		}
		return failure("Could not authenticate user", err)
	}

	h.metrics.AuthenticationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, authenticateResponse{
		Success: true,
		Message: "Authenticated successfully",
		Token:   token,
	})
}

func registrationResult(err error) string {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
	)
	switch {
	case errors.As(err, &ce):
		return "conflict"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}
