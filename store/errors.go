package store

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not the owner of the
	// store. It is returned before any access to the secret, so it looks the
	// same whether the secret is set or not.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotSet is returned to the owner reading the secret before the first
	// successful write.
	ErrNotSet = errors.New("secret is not set")

	// ErrAlreadyInitialized is returned on an attempt to bind the owner of an
	// already initialized store.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrInvalidIdentity is returned on an attempt to bind an empty identity.
	ErrInvalidIdentity = errors.New("invalid identity")
)
