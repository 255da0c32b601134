package services

import (
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"mailroom/domain"
	"mailroom/errors"
	"mailroom/sessions"
	"mailroom/store"
)

func newTestDeps(t *testing.T) (*store.FileStore, *sessions.Registry) {
	t.Helper()
	dir := t.TempDir()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	return store.NewFileStore(
		filepath.Join(dir, "users.db"),
		filepath.Join(dir, "emails.db"),
		log,
	), sessions.NewRegistry(log)
}

func testConn(t *testing.T) net.Conn {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return server
}

func TestAuthService_Register(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelError)

	t.Run("should store a salted hash, never the raw password", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		req.NoError(svc.Register("a@x.com", "pw1"))

		user, ok := fileStore.GetUser("a@x.com")
		req.True(ok)
		req.NotContains(user.Credential, "pw1")
		req.Len(strings.Split(user.Credential, "$"), 2)
	})

	t.Run("should reject a duplicate registration", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		req.NoError(svc.Register("a@x.com", "pw1"))
		req.ErrorIs(svc.Register("A@X.com", "pw2"), errors.ErrAlreadyRegistered)
	})

	t.Run("should reject missing fields before touching the store", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		req.ErrorIs(svc.Register("", "pw1"), errors.ErrMissingCredentials)
		req.ErrorIs(svc.Register("a@x.com", ""), errors.ErrMissingCredentials)
		req.Zero(fileStore.UserCount())
	})

	t.Run("should accept any present address, not just RFC-shaped ones", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		req.NoError(svc.Register("bob", "pw1"))
		_, ok := fileStore.GetUser("bob")
		req.True(ok)
	})

	t.Run("registering must not start a session", func(t *testing.T) {
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		require.NoError(t, svc.Register("a@x.com", "pw1"))
		require.False(t, registry.IsActive("a@x.com"))
	})
}

func TestAuthService_Login(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelError)

	t.Run("should bind the identity to the connection on success", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)
		conn := testConn(t)

		req.NoError(svc.Register("a@x.com", "pw1"))
		req.NoError(svc.Login("a@x.com", "pw1", conn))

		req.True(registry.IsActive("a@x.com"))
		req.Same(conn, registry.HandleFor("a@x.com"))
	})

	t.Run("should fail for an unknown user", func(t *testing.T) {
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		err := svc.Login("ghost@x.com", "pw", testConn(t))
		require.ErrorIs(t, err, errors.ErrUserNotFound)
	})

	t.Run("should fail on a wrong password without starting a session", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		req.NoError(svc.Register("a@x.com", "pw1"))
		req.ErrorIs(svc.Login("a@x.com", "wrong", testConn(t)), errors.ErrInvalidCredentials)
		req.False(registry.IsActive("a@x.com"))
	})

	t.Run("should surface a corrupted stored credential", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)

		// Bypass Register to simulate a damaged snapshot entry.
		req.True(fileStore.SaveUser(domain.User{Email: "a@x.com", Credential: "no-delimiter"}))
		req.ErrorIs(svc.Login("a@x.com", "pw1", testConn(t)), errors.ErrCorruptedCredential)
	})

	t.Run("a second login replaces the first session", func(t *testing.T) {
		req := require.New(t)
		fileStore, registry := newTestDeps(t)
		svc := NewAuthService(fileStore, registry, log)
		first := testConn(t)
		second := testConn(t)

		req.NoError(svc.Register("a@x.com", "pw1"))
		req.NoError(svc.Login("a@x.com", "pw1", first))
		req.NoError(svc.Login("a@x.com", "pw1", second))
		req.Same(second, registry.HandleFor("a@x.com"))
	})
}

func TestAuthService_Logout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelError)
	fileStore, registry := newTestDeps(t)
	svc := NewAuthService(fileStore, registry, log)

	require.NoError(t, svc.Register("a@x.com", "pw1"))
	require.NoError(t, svc.Login("a@x.com", "pw1", testConn(t)))

	svc.Logout("a@x.com")
	require.False(t, registry.IsActive("a@x.com"))

	// Logging out again is still fine: logout is idempotent by design.
	svc.Logout("a@x.com")
	require.False(t, registry.IsActive("a@x.com"))
}
