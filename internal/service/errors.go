// Package service holds the business rules between the HTTP
// handlers and the repositories: session issuance, the ownership
// policy, role mutation guards, order pricing and the cascading
// user delete. Services depend on small store interfaces rather
// than concrete repositories so the rules can be tested against
// in-memory fakes.
package service

import "errors"

// Error taxonomy shared by every service. Handlers branch on these
// with errors.Is and translate them into stable HTTP responses;
// internal detail wrapped around them is logged, never sent to the
// client.
var (
	// ErrUnauthenticated: no identity on the request, or the backing
	// user row no longer exists. Maps to 401.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden: authenticated but not permitted. Maps to 403.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: a referenced entity is absent. Maps to 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument: malformed input such as an empty line-item
	// map or an unknown menu item id. Maps to 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidOperation: a business rule was violated, e.g.
	// deleting an admin or changing one's own role. Maps to 409.
	ErrInvalidOperation = errors.New("invalid operation")
)
