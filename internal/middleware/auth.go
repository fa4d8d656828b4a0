// Package middleware provides the per-request processing that runs
// before the handlers: identity reconstruction from bearer tokens,
// Redis response caching and rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/auth"
)

// AccessChecker is the slice of the session store the authenticator
// needs: does a live session hold this access token?
type AccessChecker interface {
	IsAccessValid(ctx context.Context, accessToken string) (bool, error)
}

// Authenticator returns the middleware that reconstructs the request
// identity from a bearer access token.
//
// Requests whose path starts with one of publicPrefixes (sign-in,
// sign-up, refresh, health) are skipped entirely: no identity is
// attached. A missing Authorization header lets the request continue
// unauthenticated; routes that need identity are rejected later by
// the ownership policy. A present token must parse, verify and match
// a live session. Expired, malformed or revoked tokens are rejected
// with 401 before any handler runs, and unexpected failures reject
// with 500 rather than letting the request pass unauthenticated.
func Authenticator(issuer *auth.Issuer, sessions AccessChecker, publicPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range publicPrefixes {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				// No credentials offered; downstream decides.
				return next(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := jwt.Parse(raw, issuer.Keyfunc)
			if err != nil {
				if isTokenError(err) {
					return c.JSON(http.StatusUnauthorized, echo.Map{
						"error":   "unauthorized",
						"message": "access token is missing or expired",
					})
				}
				// Fail closed on anything unexpected.
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid claims"})
			}
			ident, err := auth.IdentityFromClaims(claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid claims"})
			}

			ok, err = sessions.IsAccessValid(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
			}
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "unauthorized",
					"message": "session is no longer active",
				})
			}

			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), ident)))
			return next(c)
		}
	}
}

// isTokenError reports whether the parse failure is a property of
// the presented token rather than of the server.
func isTokenError(err error) bool {
	return errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenNotValidYet) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, auth.ErrMalformedToken)
}
