package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// A user owns zero or more menu items, orders, reviews and at most
// one session row. Deleting a user must first remove all of those
// (see service.UserService.Delete).
//
// Fields:
//  ID           – primary key identifier (UUID stored as CHAR(36)).
//  Name         – display name shown in responses and token claims.
//  Email        – unique email address, lowercased on write.
//  PasswordHash – bcrypt hashed password.
//  Role         – access level (NORMAL, MODERATOR, ADMIN).
//  ImageURL     – avatar URL; a default is applied on registration.
//  PhoneNumber  – contact number; a default is applied on registration.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uuid.UUID // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	ImageURL     string    // users.image_url
	PhoneNumber  string    // users.phone_number
	CreatedAt    time.Time // users.created_at
}

// Identity builds the claim-bearing view of the user used when
// issuing tokens.
func (u *User) Identity() Identity {
	return Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		ImageURL:    u.ImageURL,
	}
}
