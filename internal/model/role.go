package model

import (
	"fmt"
	"strings"
)

// Role is an ordered enumeration of the access levels a user can hold.
// The numeric order matters: authorization checks compare roles with <
// and >= to decide whether a user may bypass ownership restrictions.
// NORMAL users only reach resources they own; MODERATOR and ADMIN
// bypass ownership entirely.
type Role int

const (
	RoleNormal Role = iota // regular customer account
	RoleModerator
	RoleAdmin
)

// roleNames maps each role to its canonical uppercase name as stored
// in the users.role column and in token claims.
var roleNames = map[Role]string{
	RoleNormal:    "NORMAL",
	RoleModerator: "MODERATOR",
	RoleAdmin:     "ADMIN",
}

// String returns the canonical uppercase name of the role. Unknown
// values render as NORMAL so a corrupted row never gains privileges.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return roleNames[RoleNormal]
}

// Elevated reports whether the role bypasses ownership checks.
func (r Role) Elevated() bool {
	return r >= RoleModerator
}

// ParseRole converts a role name into a Role. Matching is
// case-insensitive because the same value travels through JSON
// bodies, token claims and database columns. An unknown name is an
// error rather than a silent default.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL":
		return RoleNormal, nil
	case "MODERATOR":
		return RoleModerator, nil
	case "ADMIN":
		return RoleAdmin, nil
	}
	return RoleNormal, fmt.Errorf("unknown role %q", s)
}
