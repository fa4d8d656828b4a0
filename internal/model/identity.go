package model

import "github.com/google/uuid"

// Identity is the per-request view of the authenticated user,
// reconstructed from the access token's claims by the auth
// middleware. It is never persisted; its lifetime is a single
// request. Handlers and services read it from the request context
// instead of consulting any global state.
//
// Fields:
//  UserID      – users.id of the authenticated user.
//  Email       – email claim; always present on a valid token.
//  Role        – role claim parsed into the ordered enumeration.
//  Name        – optional display name claim.
//  PhoneNumber – optional phone number claim.
//  ImageURL    – optional avatar URL claim.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Role        Role
	Name        string
	PhoneNumber string
	ImageURL    string
}
