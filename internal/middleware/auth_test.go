package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/model"
)

type stubChecker struct {
	valid map[string]bool
	err   error
}

func (s *stubChecker) IsAccessValid(_ context.Context, token string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.valid[token], nil
}

func testMiddleware(t *testing.T, issuer *auth.Issuer, checker *stubChecker) (*echo.Echo, *bool, *model.Identity) {
	t.Helper()
	e := echo.New()
	e.Use(Authenticator(issuer, checker, "/api/auth/signin", "/healthz"))

	handlerRan := false
	var seen model.Identity
	h := func(c echo.Context) error {
		handlerRan = true
		if ident, ok := auth.IdentityFrom(c.Request().Context()); ok {
			seen = ident
		}
		return c.NoContent(http.StatusOK)
	}
	e.GET("/api/orders", h)
	e.GET("/healthz", h)
	return e, &handlerRan, &seen
}

func issue(t *testing.T, issuer *auth.Issuer) (model.Identity, string) {
	t.Helper()
	ident := model.Identity{UserID: uuid.New(), Email: "ada@example.com", Role: model.RoleNormal}
	pair, err := issuer.IssuePair(ident)
	require.NoError(t, err)
	return ident, pair.AccessToken
}

func TestAuthenticatorAttachesIdentity(t *testing.T) {
	issuer := auth.NewIssuer("secret", 15, 7)
	ident, token := issue(t, issuer)
	checker := &stubChecker{valid: map[string]bool{token: true}}
	e, ran, seen := testMiddleware(t, issuer, checker)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *ran)
	require.Equal(t, ident.UserID, seen.UserID)
	require.Equal(t, ident.Email, seen.Email)
}

func TestAuthenticatorSkipsPublicPrefixes(t *testing.T) {
	issuer := auth.NewIssuer("secret", 15, 7)
	checker := &stubChecker{err: errors.New("must not be called")}
	e, ran, _ := testMiddleware(t, issuer, checker)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *ran)
}

func TestAuthenticatorNoHeaderContinuesUnauthenticated(t *testing.T) {
	issuer := auth.NewIssuer("secret", 15, 7)
	e, ran, seen := testMiddleware(t, issuer, &stubChecker{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *ran)
	require.Equal(t, uuid.Nil, seen.UserID, "no identity attached")
}

func TestAuthenticatorRejectsExpiredToken(t *testing.T) {
	issuer := auth.NewIssuer("secret", -1, 7) // already expired
	_, token := issue(t, issuer)
	checker := &stubChecker{valid: map[string]bool{token: true}}
	e, ran, _ := testMiddleware(t, issuer, checker)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, *ran, "handler must not run on an expired token")
}

func TestAuthenticatorRejectsForeignSignature(t *testing.T) {
	issuer := auth.NewIssuer("secret", 15, 7)
	foreign := auth.NewIssuer("other", 15, 7)
	_, token := issue(t, foreign)
	e, ran, _ := testMiddleware(t, issuer, &stubChecker{valid: map[string]bool{token: true}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, *ran)
}

func TestAuthenticatorRejectsRevokedSession(t *testing.T) {
	issuer := auth.NewIssuer("secret", 15, 7)
	_, token := issue(t, issuer)
	// Token verifies but no session row holds it (logged out).
	e, ran, _ := testMiddleware(t, issuer, &stubChecker{valid: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, *ran)
}

func TestAuthenticatorFailsClosed(t *testing.T) {
	issuer := auth.NewIssuer("secret", 15, 7)
	_, token := issue(t, issuer)
	e, ran, _ := testMiddleware(t, issuer, &stubChecker{err: errors.New("store down")})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, *ran, "a failing session store must not let requests through")
}
