// Package domain contains the core records of the mail system.
// Users and emails are plain values; all synchronization lives in the store.
package domain

import "strings"

// User is a registered identity, keyed by its normalized email address.
// Credential holds "salt$hash" as produced by the auth package; the raw
// password never reaches this struct.
type User struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

// NormalizeEmail is the single normalization rule for the address space.
// Two addresses are the same identity iff their normalized forms are equal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameAddress reports whether two raw addresses designate the same identity.
func SameAddress(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}
