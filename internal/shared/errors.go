package shared

import "errors"

var (
	// ErrNotFound indicates a referenced resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a unique field collision.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the actor's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrTerminalDocument indicates a mutation attempt on an immutable document.
	ErrTerminalDocument = errors.New("document is in a terminal status")
	// ErrInsufficientStock indicates an outbound movement would drive stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleVersion indicates an optimistic-lock conflict; the caller may retry.
	ErrStaleVersion = errors.New("stock version changed, retry the operation")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrReferenced blocks deletion of entities still referenced by products.
	ErrReferenced = errors.New("entity is referenced and cannot be deleted")
)
