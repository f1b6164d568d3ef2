package mockapi

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/minimall/storefront-client/internal/core/domain"
)

const identityKey = "identity"

// auth validates the bearer token and injects the caller's identity.
// Rejections are raw HTTP 401s, not envelopes: the status line is the
// client's forced-logout signal.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		id, _ := claims["id"].(float64)
		role, _ := claims["role"].(float64)
		username, _ := claims["username"].(string)
		c.Set(identityKey, domain.Identity{
			ID:       int64(id),
			Username: username,
			Role:     domain.Role(int(role)),
		})

		return next(c)
	}
}

// requireRole gates a route group to exactly one role, mirroring the
// client-side rule: no hierarchy, an admin does not pass a manager gate.
func (s *Server) requireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := c.Get(identityKey).(domain.Identity)
			if !ok || ident.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func identity(c echo.Context) domain.Identity {
	ident, _ := c.Get(identityKey).(domain.Identity)
	return ident
}
