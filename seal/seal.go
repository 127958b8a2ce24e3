/*
Package seal encrypts secret values on the client side before they are stored
in the contract.

Contract storage is readable by anyone having access to the chain state, so
access control of the Secret contract can not keep the value confidential.
Sealing the value with age X25519 recipients keeps only ciphertext on chain,
while the identities able to open it never leave their owners.
*/
package seal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
)

// ErrNoRecipients is returned by Seal called without recipients.
var ErrNoRecipients = errors.New("at least one recipient is required")

// ErrNoIdentities is returned by Open called without identities.
var ErrNoIdentities = errors.New("at least one identity is required")

// Seal encrypts plaintext to all the given recipients.
func Seal(plaintext []byte, recipients ...age.Recipient) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, recipients...)
	if err != nil {
		return nil, fmt.Errorf("create age encryptor: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("write plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Open decrypts ciphertext produced by Seal with any of the given identities.
func Open(ciphertext []byte, identities ...age.Identity) ([]byte, error) {
	if len(identities) == 0 {
		return nil, ErrNoIdentities
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read plaintext: %w", err)
	}

	return plaintext, nil
}

// ParseRecipients parses age public keys (age1...).
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	res := make([]age.Recipient, 0, len(keys))
	for _, k := range keys {
		r, err := age.ParseX25519Recipient(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("parse recipient %q: %w", k, err)
		}
		res = append(res, r)
	}
	return res, nil
}

// ParseIdentities parses age identities file contents: one AGE-SECRET-KEY-1...
// per line, empty lines and '#' comments are ignored.
func ParseIdentities(r io.Reader) ([]age.Identity, error) {
	ids, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("parse identities: %w", err)
	}
	return ids, nil
}

// GenerateIdentity generates new X25519 identity.
func GenerateIdentity() (*age.X25519Identity, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generate age identity: %w", err)
	}
	return id, nil
}
