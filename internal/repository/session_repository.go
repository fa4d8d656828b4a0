package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionRepo persists the single access/refresh token pair that is
// currently valid for each user (the 'sessions' table).
type SessionRepo struct {
	DB         *sql.DB
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSessionRepo binds the repo to its DB handle and the configured
// token lifetimes (access in minutes, refresh in days) used to
// compute row expiries on save.
func NewSessionRepo(db *sql.DB, accessTTLMin, refreshTTLDays int) *SessionRepo {
	return &SessionRepo{
		DB:         db,
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// Save rotates the user's session: any existing row is deleted and
// the new pair inserted within one transaction. Two concurrent
// sign-ins for the same user serialize on the row lock taken by the
// DELETE, so the row left standing always matches the pair returned
// to whichever caller committed last.
func (r *SessionRepo) Save(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id=?", userID.String()); err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (user_id, access_token, refresh_token, access_expires_at, refresh_expires_at) VALUES (?,?,?,?,?)",
		userID.String(), accessToken, refreshToken, now.Add(r.accessTTL), now.Add(r.refreshTTL))
	return err
}

// IsRefreshValid reports whether the user's stored session carries
// this exact refresh token and the token has not expired yet.
func (r *SessionRepo) IsRefreshValid(ctx context.Context, userID uuid.UUID, refreshToken string) (bool, error) {
	var expiresAt time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT refresh_expires_at FROM sessions WHERE user_id=? AND refresh_token=? LIMIT 1",
		userID.String(), refreshToken).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return expiresAt.After(time.Now().UTC()), nil
}

// IsAccessValid reports whether a session row holds this access
// token and its expiry is still in the future. The auth middleware
// consults this on every protected request, which is what makes
// logout take effect immediately instead of waiting out the JWT
// expiry.
func (r *SessionRepo) IsAccessValid(ctx context.Context, accessToken string) (bool, error) {
	var expiresAt time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT access_expires_at FROM sessions WHERE access_token=? LIMIT 1",
		accessToken).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return expiresAt.After(time.Now().UTC()), nil
}

// Invalidate removes the session row matching either token value.
// Each token is handled independently so logout succeeds even when
// only the access token is known (the refresh cookie may be gone).
func (r *SessionRepo) Invalidate(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if _, err := r.DB.ExecContext(ctx,
			"DELETE FROM sessions WHERE access_token=?", accessToken); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if _, err := r.DB.ExecContext(ctx,
			"DELETE FROM sessions WHERE refresh_token=?", refreshToken); err != nil {
			return err
		}
	}
	return nil
}
