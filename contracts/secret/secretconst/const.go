// Package secretconst contains Secret contract constants shared with
// off-chain code.
package secretconst

// Exception messages thrown by the Secret contract. Off-chain callers may
// match FAULT exceptions against them.
const (
	// ErrUnauthorized is thrown when the transaction is not witnessed by the
	// contract owner. It is the same regardless of the secret state.
	ErrUnauthorized = "unauthorized"
	// ErrNotSet is thrown by an owner read before the first write.
	ErrNotSet = "secret is not set"
	// ErrAlreadyInitialized is thrown on an attempt to bind the owner twice.
	ErrAlreadyInitialized = "already initialized"
	// ErrInvalidOwner is thrown on deployment with malformed owner.
	ErrInvalidOwner = "invalid owner"
)

// SecretChangedEvent is the name of the notification emitted on every
// successful write. Its only parameter is the write sequence number.
const SecretChangedEvent = "SecretChanged"
