package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"mailroom/errors"
)

var validate = validator.New()

// CredentialsRequest is the shape check applied before any cryptographic work.
// Both rules stop at "present": the address is an opaque account key here, and
// password complexity enforcement is intentionally left to a future policy layer.
type CredentialsRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func ValidateCredentials(req CredentialsRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMissingCredentials, err)
	}
	return nil
}
