package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/model"
)

// Default profile values applied on registration, matching the
// column defaults of the users table.
const (
	defaultName     = "Default Name"
	defaultImageURL = "https://example.com/default-avatar.png"
	defaultPhone    = "000-000-0000"
)

// UserStore is the user repository surface the auth and user
// services depend on.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, page, size int) ([]*model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// SessionStore persists the one active token pair per user.
type SessionStore interface {
	Save(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error
	IsRefreshValid(ctx context.Context, userID uuid.UUID, refreshToken string) (bool, error)
	Invalidate(ctx context.Context, accessToken, refreshToken string) error
}

// AuthService implements sign-up, sign-in, token refresh and logout.
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	issuer     *auth.Issuer
	bcryptCost int
}

func NewAuthService(users UserStore, sessions SessionStore, issuer *auth.Issuer, bcryptCost int) *AuthService {
	return &AuthService{users: users, sessions: sessions, issuer: issuer, bcryptCost: bcryptCost}
}

// Register creates a user with the NORMAL role and hashed password.
// A taken email fails with ErrInvalidOperation.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidArgument)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrInvalidOperation)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = defaultName
	}
	u := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleNormal,
		ImageURL:     defaultImageURL,
		PhoneNumber:  defaultPhone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials, issues a fresh token pair and saves it
// as the user's single active session, superseding any previous one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, auth.Pair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.Pair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	if err != nil {
		return nil, auth.Pair{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, auth.Pair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a still-valid refresh token for a new pair. The
// claims are read without signature/expiry verification on purpose:
// the access token tied to this session has usually expired already,
// and the decision rests on the stored session row, not on the JWT
// exp claim. A user row that disappeared since issuance is a hard
// failure, never silently ignored.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, auth.Pair, error) {
	ident, err := auth.ExtractClaims(refreshToken)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	u, err := s.users.GetByEmail(ctx, ident.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.Pair{}, fmt.Errorf("%w: unknown user %s", ErrUnauthenticated, ident.Email)
	}
	if err != nil {
		return nil, auth.Pair{}, err
	}
	ok, err := s.sessions.IsRefreshValid(ctx, u.ID, refreshToken)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	if !ok {
		return nil, auth.Pair{}, fmt.Errorf("%w: refresh token is invalid or expired", ErrUnauthenticated)
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	return u, pair, nil
}

// Logout drops the session matching either token. The refresh token
// may be empty: invalidation by access token alone must succeed.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" && refreshToken == "" {
		return fmt.Errorf("%w: no token supplied", ErrInvalidArgument)
	}
	return s.sessions.Invalidate(ctx, accessToken, refreshToken)
}

// Current returns the user behind the request identity.
func (s *AuthService) Current(ctx context.Context) (*model.User, error) {
	ident, ok := auth.IdentityFrom(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetByEmail(ctx, ident.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

func (s *AuthService) issue(ctx context.Context, u *model.User) (auth.Pair, error) {
	pair, err := s.issuer.IssuePair(u.Identity())
	if err != nil {
		return auth.Pair{}, err
	}
	if err := s.sessions.Save(ctx, u.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		return auth.Pair{}, err
	}
	return pair, nil
}
