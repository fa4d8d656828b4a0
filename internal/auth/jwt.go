// Package auth creates and reads the signed tokens that carry a
// user's identity between requests. Both halves of a token pair are
// HS256 JWTs with an identical claim set; they differ only in how
// long they live. The signing secret is shared and loaded once at
// startup.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

// ErrMalformedToken is returned when a token string cannot be parsed
// into a claim set, or when a required claim (email, role, id) is
// missing or of the wrong type. Handlers translate this into 401.
var ErrMalformedToken = errors.New("malformed token")

// Issuer signs token pairs with a shared symmetric secret. It is
// constructed once at startup from the validated configuration and
// passed explicitly to the components that need it.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an Issuer from the configured secret and
// lifetimes (access in minutes, refresh in days). Config validation
// guarantees the secret is non-empty before this is called.
func NewIssuer(secret string, accessTTLMin, refreshTTLDays int) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// Pair bundles a freshly issued access/refresh token pair with the
// expiry timestamps that the session store persists.
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RefreshTTL exposes the refresh lifetime so the sign-in handler can
// set the cookie Max-Age to match.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssuePair signs an access and a refresh token for the given
// identity. Both tokens carry the full claim set; only the expiry
// differs (minutes vs days).
func (i *Issuer) IssuePair(ident model.Identity) (Pair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(i.accessTTL)
	refreshExp := now.Add(i.refreshTTL)

	access, err := i.sign(ident, now, accessExp)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.sign(ident, now, refreshExp)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *Issuer) sign(ident model.Identity, iat, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"email": ident.Email,
		"role":  ident.Role.String(),
		"id":    ident.UserID.String(),
		"exp":   exp.Unix(),
		"iat":   iat.Unix(),
		// jti makes every issued token distinct even within the same
		// second; session rotation depends on the new pair never
		// colliding with the pair it replaces.
		"jti": uuid.NewString(),
	}
	// Optional profile claims are only embedded when present so the
	// extractor can tell "absent" from "empty".
	if ident.Name != "" {
		claims["name"] = ident.Name
	}
	if ident.PhoneNumber != "" {
		claims["phoneNumber"] = ident.PhoneNumber
	}
	if ident.ImageURL != "" {
		claims["imageUrl"] = ident.ImageURL
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Keyfunc is the verification callback handed to jwt.Parse by the
// auth middleware. It pins the signing method to HMAC before
// releasing the secret.
func (i *Issuer) Keyfunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrMalformedToken
	}
	return i.secret, nil
}

// ExtractClaims parses a token's payload WITHOUT verifying signature
// or expiry. The refresh flow depends on this: it must read the
// claims of an already-expired access or refresh token before
// deciding whether the stored session still honors the refresh
// token. Callers that need a trusted identity must go through the
// middleware's verified parse instead.
func ExtractClaims(token string) (model.Identity, error) {
	parser := jwt.NewParser()
	tok, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return model.Identity{}, ErrMalformedToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, ErrMalformedToken
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims converts a raw claim map into a typed Identity.
// email, role and id are required; a missing or mistyped value fails
// here, at parse time, rather than surfacing as a nil-check later.
func IdentityFromClaims(claims jwt.MapClaims) (model.Identity, error) {
	email, _ := claims["email"].(string)
	roleName, _ := claims["role"].(string)
	idStr, _ := claims["id"].(string)
	if email == "" || roleName == "" || idStr == "" {
		return model.Identity{}, ErrMalformedToken
	}
	role, err := model.ParseRole(roleName)
	if err != nil {
		return model.Identity{}, ErrMalformedToken
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return model.Identity{}, ErrMalformedToken
	}
	ident := model.Identity{UserID: userID, Email: email, Role: role}
	if v, ok := claims["name"].(string); ok {
		ident.Name = v
	}
	if v, ok := claims["phoneNumber"].(string); ok {
		ident.PhoneNumber = v
	}
	if v, ok := claims["imageUrl"].(string); ok {
		ident.ImageURL = v
	}
	return ident, nil
}
