//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"
	"log/slog"
	"net"

	"mailroom/auth"
	"mailroom/domain"
	"mailroom/errors"
	"mailroom/sessions"
	"mailroom/store"
)

type IAuthService interface {
	Register(email, password string) error
	Login(email, password string, conn net.Conn) error
	Logout(email string)
}

// AuthService drives the identity state machine: register, then login to get
// a session, then logout. It never sees a connection beyond handing it to the
// session registry.
type AuthService struct {
	store    *store.FileStore
	sessions *sessions.Registry
	log      *slog.Logger
}

func NewAuthService(store *store.FileStore, sessions *sessions.Registry, log *slog.Logger) IAuthService {
	return &AuthService{store: store, sessions: sessions, log: log}
}

// Register validates the request shape, hashes the password and persists the
// new identity. The store performs the uniqueness check and the insert under
// one lock, so concurrent registrations of the same address cannot both pass.
func (s *AuthService) Register(email, password string) error {
	req := auth.CredentialsRequest{Email: email, Password: password}
	if err := auth.ValidateCredentials(req); err != nil {
		return err
	}

	// Hash in the service layer so the store never sees a plain password.
	credential, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	if !s.store.SaveUser(domain.User{Email: email, Credential: credential}) {
		s.log.Warn("Registration rejected, address taken", "user", domain.NormalizeEmail(email))
		return errors.ErrAlreadyRegistered
	}

	s.log.Info("User registered", "user", domain.NormalizeEmail(email))
	return nil
}

// Login verifies the credentials and, on a match, binds the identity to the
// given connection. Each failure mode keeps its own sentinel so the
// dispatcher can report the exact reason the original protocol exposes.
func (s *AuthService) Login(email, password string, conn net.Conn) error {
	if email == "" || password == "" {
		return errors.ErrMissingCredentials
	}

	user, ok := s.store.GetUser(email)
	if !ok {
		s.log.Warn("Login failed, user not found", "user", domain.NormalizeEmail(email))
		return errors.ErrUserNotFound
	}

	match, err := auth.ComparePassword(password, user.Credential)
	if err != nil {
		s.log.Error("Login failed, corrupted credential", "user", user.Email)
		return err
	}
	if !match {
		s.log.Warn("Login failed, invalid credentials", "user", user.Email)
		return errors.ErrInvalidCredentials
	}

	s.sessions.Start(email, conn)
	s.log.Info("User logged in", "user", user.Email)
	return nil
}

// Logout ends the session. Logging out an identity with no session is still
// a success; callers observe the same outcome either way.
func (s *AuthService) Logout(email string) {
	s.sessions.End(email)
	s.log.Info("User logged out", "user", domain.NormalizeEmail(email))
}
