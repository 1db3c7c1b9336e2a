package crud

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/db"
)

// ValidationError is a rejected write. Handlers report it as 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalidf returns a ValidationError with a formatted message.
func Invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ErrConflict marks a write that the current state of the record forbids,
// such as editing a signed note.
var ErrConflict = errors.New("conflict")

// Conflictf returns an error wrapping ErrConflict.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// HTTPError maps service and repository errors to echo HTTP errors.
func HTTPError(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case db.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "not found").SetInternal(err)
	case db.IsForeignKeyViolation(err):
		return echo.NewHTTPError(http.StatusConflict, "operation conflicts with related records").SetInternal(err)
	case db.IsUniqueViolation(err):
		return echo.NewHTTPError(http.StatusConflict, "record already exists").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
