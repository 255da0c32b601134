package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/argon2"

	"mailroom/errors"
)

// Argon2id parameters, sized for an interactive login path.
const (
	Memory      = 64 * 1024 // 64 MB
	Iterations  = 3
	Parallelism = 2
	SaltLength  = 16
	KeyLength   = 32
)

// credentialDelimiter separates salt from digest in the stored credential.
// Both halves are raw base64, so the delimiter can never appear inside them.
const credentialDelimiter = "$"

// HashPassword derives a fresh credential from a plain text password.
// A new random salt is generated on every call, so hashing the same password
// twice yields two different credentials. The result is stored as "salt$hash".
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	digest := argon2.IDKey([]byte(password), salt, Iterations, Memory, Parallelism, KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Digest := base64.RawStdEncoding.EncodeToString(digest)
	return b64Salt + credentialDelimiter + b64Digest, nil
}

// ComparePassword checks a plain text password against a stored "salt$hash"
// credential. A credential that cannot be split and decoded is reported as
// errors.ErrCorruptedCredential so callers can distinguish bad data from a
// plain mismatch.
func ComparePassword(password, credential string) (bool, error) {
	parts := strings.Split(credential, credentialDelimiter)
	if len(parts) != 2 {
		return false, errors.ErrCorruptedCredential
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, errors.ErrCorruptedCredential
	}
	stored, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, errors.ErrCorruptedCredential
	}

	// Recompute with the stored salt and compare in constant time to avoid
	// leaking the match position through response latency.
	computed := argon2.IDKey([]byte(password), salt, Iterations, Memory, Parallelism, uint32(len(stored)))
	return subtle.ConstantTimeCompare(stored, computed) == 1, nil
}
