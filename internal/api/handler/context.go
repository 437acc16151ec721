package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whiskerworks/cats-api/internal/api/middleware"
	"github.com/whiskerworks/cats-api/internal/core/domain"
)

// principal returns the caller injected by the Auth middleware. Routes
// without that middleware get ErrUnauthenticated.
func principal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}
