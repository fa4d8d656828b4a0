package model

import (
	"time"

	"github.com/google/uuid"
)

// Session models a row in the `sessions` table: the access/refresh
// token pair currently valid for a user. The table holds at most one
// row per user; issuing a new pair replaces any prior row inside a
// single transaction, so two concurrent sign-ins cannot leave a row
// that does not match the pair returned to its caller.
//
// Fields:
//  ID               – auto-increment primary key.
//  UserID           – owner of the session.
//  AccessToken      – signed access token string (short-lived).
//  RefreshToken     – signed refresh token string (long-lived).
//  AccessExpiresAt  – when the access token stops being accepted.
//  RefreshExpiresAt – when the refresh token stops being accepted.
type Session struct {
	ID               int64     // sessions.id
	UserID           uuid.UUID // sessions.user_id
	AccessToken      string    // sessions.access_token
	RefreshToken     string    // sessions.refresh_token
	AccessExpiresAt  time.Time // sessions.access_expires_at
	RefreshExpiresAt time.Time // sessions.refresh_expires_at
}
