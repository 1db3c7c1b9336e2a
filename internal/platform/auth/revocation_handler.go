package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type revokeUserRequest struct {
	UserID string `json:"user_id"`
}

// RegisterRevocationRoutes registers token revocation endpoints:
// POST /auth/logout revokes the caller's own token, and
// POST /auth/revoke-user (AdminOnly) signs a user out everywhere.
func RegisterRevocationRoutes(g *echo.Group, store *TokenRevocationStore) {
	g.POST("/auth/logout", handleLogout(store))
	g.POST("/auth/revoke-user", handleRevokeUser(store), RequirePolicy(AdminOnly))
}

func handleLogout(store *TokenRevocationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFromContext(c.Request().Context())
		if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "no token to revoke")
		}
		store.Revoke(claims.ID, claims.ExpiresAt.Time)
		return c.NoContent(http.StatusNoContent)
	}
}

func handleRevokeUser(store *TokenRevocationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req revokeUserRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if req.UserID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
		}
		store.RevokeAllForUser(req.UserID)
		return c.NoContent(http.StatusNoContent)
	}
}
