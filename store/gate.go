package store

import "crypto/subtle"

// Decision is a result of the access check.
type Decision uint8

const (
	// Deny forbids the operation.
	Deny Decision = iota
	// Allow permits the operation.
	Allow
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// gate binds the owner once and checks callers against it.
type gate struct {
	bound       bool
	ownerDigest [32]byte
}

func (g *gate) bind(owner Identity) error {
	if g.bound {
		return ErrAlreadyInitialized
	}
	if len(owner) == 0 {
		return ErrInvalidIdentity
	}

	g.ownerDigest = owner.digest()
	g.bound = true

	return nil
}

// authorize returns Allow iff gate is bound and caller is the owner. Unbound
// gate compares against zero digest anyway to keep the same work per call.
func (g *gate) authorize(caller Identity) Decision {
	d := caller.digest()
	eq := subtle.ConstantTimeCompare(d[:], g.ownerDigest[:])

	if eq == 1 && g.bound {
		return Allow
	}
	return Deny
}
