package errors

import "fmt"

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrMissingDelimiter    = fmt.Errorf("missing protocol delimiter")
	ErrMissingCredentials  = fmt.Errorf("missing email or password")
	ErrAlreadyRegistered   = fmt.Errorf("email already registered")
	ErrUserNotFound        = fmt.Errorf("user not found")
	ErrCorruptedCredential = fmt.Errorf("corrupted credential entry")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrMissingEmailFields  = fmt.Errorf("missing required email fields")
	ErrUnknownRecipient    = fmt.Errorf("recipient is not registered")
)
