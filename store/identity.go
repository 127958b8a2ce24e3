package store

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/mr-tron/base58"
)

// Identity is an authenticated caller identity supplied by the surrounding
// environment, e.g. a session token or a key ID. It is treated as a credential:
// compared in constant time and never logged as is.
type Identity []byte

// digest is the fixed-size form of the Identity used for comparisons, so
// identities of different lengths take the same time to compare.
func (x Identity) digest() [sha256.Size]byte {
	return sha256.Sum256(x)
}

// Equal checks whether x and other are the same identity. Comparison time
// does not depend on the position of the first mismatching byte nor on
// lengths of the identities.
func (x Identity) Equal(other Identity) bool {
	a, b := x.digest(), other.digest()
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// Fingerprint returns short log-safe label of the Identity.
func (x Identity) Fingerprint() string {
	d := x.digest()
	return base58.Encode(d[:8])
}
