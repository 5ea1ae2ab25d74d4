package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/retailer_portal/internal/service"
)

// httpError maps a service error onto a status; anything unrecognised becomes
// a 500 carrying fallback rather than the internal error text.
func httpError(err error, fallback string) (int, *echo.HTTPError) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	default:
		return http.StatusInternalServerError, echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}
