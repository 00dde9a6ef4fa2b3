package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-portal/internal/api"
	"github.com/iliyamo/vacation-portal/internal/service"
)

// statusFor maps a service or upstream error onto the console's response
// code.  Upstream 4xx codes pass through; upstream 5xx and transport
// failures become 502.
func statusFor(err error) int {
	var (
		verr   *service.ValidationError
		apiErr *api.Error
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, service.ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &apiErr):
		if apiErr.Status >= 500 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, api.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail answers with {"error": msg}.  fallback is shown for errors that
// carry no user-facing text.
func fail(c echo.Context, err error, fallback string) error {
	return c.JSON(statusFor(err), echo.Map{"error": service.Message(err, fallback)})
}
