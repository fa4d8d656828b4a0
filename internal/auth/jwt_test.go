package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/food-squad/internal/model"
)

func testIdentity() model.Identity {
	return model.Identity{
		UserID:      uuid.New(),
		Email:       "ada@example.com",
		Role:        model.RoleModerator,
		Name:        "Ada",
		PhoneNumber: "555-0100",
		ImageURL:    "https://example.com/ada.png",
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", 15, 7)
	ident := testIdentity()

	pair, err := issuer.IssuePair(ident)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
		got, err := ExtractClaims(token)
		require.NoError(t, err)
		require.Equal(t, ident, got)
	}
}

func TestIssuePairVerifiable(t *testing.T) {
	issuer := NewIssuer("secret", 15, 7)
	pair, err := issuer.IssuePair(testIdentity())
	require.NoError(t, err)

	tok, err := jwt.Parse(pair.AccessToken, issuer.Keyfunc)
	require.NoError(t, err)
	require.True(t, tok.Valid)

	// A different secret must fail signature verification.
	other := NewIssuer("other-secret", 15, 7)
	_, err = jwt.Parse(pair.AccessToken, other.Keyfunc)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestExtractClaimsIgnoresExpiry(t *testing.T) {
	// TTL of zero minutes issues an already-expired access token; the
	// refresh flow must still read its claims.
	issuer := NewIssuer("secret", 0, 7)
	ident := testIdentity()
	pair, err := issuer.IssuePair(ident)
	require.NoError(t, err)

	time.Sleep(time.Second)
	_, err = jwt.Parse(pair.AccessToken, issuer.Keyfunc)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	got, err := ExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, ident.Email, got.Email)
	require.Equal(t, ident.UserID, got.UserID)
}

func TestExtractClaimsMalformed(t *testing.T) {
	for _, tc := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := ExtractClaims(tc)
		require.ErrorIs(t, err, ErrMalformedToken, "input %q", tc)
	}
}

func TestIdentityFromClaimsRequiredFields(t *testing.T) {
	id := uuid.New().String()
	valid := jwt.MapClaims{"email": "a@b.c", "role": "NORMAL", "id": id}

	ident, err := IdentityFromClaims(valid)
	require.NoError(t, err)
	require.Equal(t, model.RoleNormal, ident.Role)

	for _, drop := range []string{"email", "role", "id"} {
		claims := jwt.MapClaims{}
		for k, v := range valid {
			claims[k] = v
		}
		delete(claims, drop)
		_, err := IdentityFromClaims(claims)
		require.ErrorIs(t, err, ErrMalformedToken, "missing %s", drop)
	}

	bad := jwt.MapClaims{"email": "a@b.c", "role": "WIZARD", "id": id}
	_, err = IdentityFromClaims(bad)
	require.ErrorIs(t, err, ErrMalformedToken)

	bad = jwt.MapClaims{"email": "a@b.c", "role": "NORMAL", "id": "not-a-uuid"}
	_, err = IdentityFromClaims(bad)
	require.ErrorIs(t, err, ErrMalformedToken)
}
