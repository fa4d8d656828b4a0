// Package repository contains data access logic separated from HTTP
// handlers and services. Repositories are thin structs over a shared
// *sql.DB; they return sql.ErrNoRows for missing rows and the
// sentinel values below for conditions the service layer branches
// on.
package repository

import "errors"

// ErrEmailExists is returned when inserting a user whose email is
// already taken. Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
