package utils

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"auto-shipping/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator wraps go-playground/validator so handlers can share a
// single configured instance.
type RequestValidator struct {
	validate *validator.Validate
}

var (
	validatorOnce     sync.Once
	validatorInstance *RequestValidator
)

// GetValidator returns the shared request validator.
func GetValidator() *RequestValidator {
	validatorOnce.Do(func() {
		validatorInstance = &RequestValidator{validate: validator.New()}
	})
	return validatorInstance
}

// Validate runs struct validation against the request's `validate` tags.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes a uniform JSON error body.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// HandleServiceError maps known service errors to HTTP status codes.
// Anything unrecognized becomes a 500 with a generic message so internal
// details never leak to clients.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrNicknameTaken):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrQuoteExpired):
		return RespondWithError(c, http.StatusGone, err.Error())
	case errors.Is(err, models.ErrShipmentCannotBeCancelled),
		errors.Is(err, models.ErrCannotSubmitFeedback),
		errors.Is(err, models.ErrFeedbackAlreadySubmitted):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNoCarriersAvailable):
		return RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, models.ErrInvalidToken):
		return RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		c.Logger().Error(err)
		return RespondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

// ExtractUserInfo pulls the authenticated user's ID and role out of the
// echo context, where the JWT middleware stored them.
func ExtractUserInfo(c echo.Context) (userID string, role string, err error) {
	userID, _ = c.Get("userID").(string)
	role, _ = c.Get("userRole").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return userID, role, nil
}

// GetPageLimit reads pagination query parameters with sane defaults.
func GetPageLimit(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
