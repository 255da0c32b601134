package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mailroom/errors"
)

func TestHashPassword(t *testing.T) {
	req := require.New(t)

	credential, err := HashPassword("s3cret")
	req.NoError(err)

	// Stored form is "salt$hash" and never contains the raw password.
	req.Len(strings.Split(credential, "$"), 2)
	req.NotContains(credential, "s3cret")

	// A fresh salt per call means the same password never hashes twice alike.
	other, err := HashPassword("s3cret")
	req.NoError(err)
	req.NotEqual(credential, other)
}

func TestComparePassword(t *testing.T) {
	credential, err := HashPassword("s3cret")
	require.NoError(t, err)

	t.Run("should match the original password", func(t *testing.T) {
		match, err := ComparePassword("s3cret", credential)
		require.NoError(t, err)
		require.True(t, match)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		match, err := ComparePassword("wrong", credential)
		require.NoError(t, err)
		require.False(t, match)
	})

	t.Run("should report a credential without delimiter as corrupted", func(t *testing.T) {
		_, err := ComparePassword("s3cret", "notacredential")
		require.ErrorIs(t, err, errors.ErrCorruptedCredential)
	})

	t.Run("should report undecodable salt or hash as corrupted", func(t *testing.T) {
		_, err := ComparePassword("s3cret", "???$???")
		require.ErrorIs(t, err, errors.ErrCorruptedCredential)
	})
}

func TestValidateCredentials(t *testing.T) {
	t.Run("should accept a well-formed request", func(t *testing.T) {
		err := ValidateCredentials(CredentialsRequest{Email: "a@x.com", Password: "pw"})
		require.NoError(t, err)
	})

	t.Run("should only require presence, not an address format", func(t *testing.T) {
		err := ValidateCredentials(CredentialsRequest{Email: "bob", Password: "pw"})
		require.NoError(t, err)
	})

	t.Run("should reject missing fields", func(t *testing.T) {
		err := ValidateCredentials(CredentialsRequest{Email: "a@x.com"})
		require.ErrorIs(t, err, errors.ErrMissingCredentials)

		err = ValidateCredentials(CredentialsRequest{Password: "pw"})
		require.ErrorIs(t, err, errors.ErrMissingCredentials)
	})
}
