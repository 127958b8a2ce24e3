package seal

import (
	"bytes"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	alice, err := GenerateIdentity()
	require.NoError(t, err)
	bob, err := GenerateIdentity()
	require.NoError(t, err)
	eve, err := GenerateIdentity()
	require.NoError(t, err)

	plaintext := []byte("s3cr3t")

	ciphertext, err := Seal(plaintext, alice.Recipient(), bob.Recipient())
	require.NoError(t, err)
	require.False(t, bytes.Contains(ciphertext, plaintext))

	for _, id := range []age.Identity{alice, bob} {
		res, err := Open(ciphertext, id)
		require.NoError(t, err)
		require.Equal(t, plaintext, res)
	}

	_, err = Open(ciphertext, eve)
	require.Error(t, err)

	res, err := Open(ciphertext, eve, bob)
	require.NoError(t, err)
	require.Equal(t, plaintext, res)
}

func TestSealEmpty(t *testing.T) {
	id, err := GenerateIdentity()
	require.NoError(t, err)

	ciphertext, err := Seal(nil, id.Recipient())
	require.NoError(t, err)

	res, err := Open(ciphertext, id)
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestMissingKeys(t *testing.T) {
	_, err := Seal([]byte("value"))
	require.ErrorIs(t, err, ErrNoRecipients)

	_, err = Open([]byte("value"))
	require.ErrorIs(t, err, ErrNoIdentities)

	id, err := GenerateIdentity()
	require.NoError(t, err)

	_, err = Open([]byte("not an age file"), id)
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	id, err := GenerateIdentity()
	require.NoError(t, err)

	rs, err := ParseRecipients([]string{" " + id.Recipient().String() + "\n"})
	require.NoError(t, err)
	require.Len(t, rs, 1)

	_, err = ParseRecipients([]string{"age1invalid"})
	require.Error(t, err)

	ids, err := ParseIdentities(strings.NewReader("# created by test\n" + id.String() + "\n"))
	require.NoError(t, err)
	require.Len(t, ids, 1)

	ciphertext, err := Seal([]byte("value"), rs...)
	require.NoError(t, err)

	res, err := Open(ciphertext, ids...)
	require.NoError(t, err)
	require.Equal(t, []byte("value"), res)

	_, err = ParseIdentities(strings.NewReader("garbage"))
	require.Error(t, err)
}
