package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/db"
)

// Actor copies the authenticated user id into the context key the
// repositories read for created_by / modified_by.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid, ok := auth.UserIDFromContext(c.Request().Context()); ok {
				ctx := db.WithActor(c.Request().Context(), uid)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
