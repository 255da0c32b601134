// Package sessions tracks which identities are currently logged in and on
// which connection. The registry is the authorization source for the
// dispatcher; it knows nothing about users or emails beyond the address key.
package sessions

import (
	"log/slog"
	"net"
	"sync"

	"mailroom/domain"
)

// Registry maps a normalized email to its live connection. At most one entry
// exists per identity; a new login replaces the previous one without
// notifying the prior connection (last-login-wins).
type Registry struct {
	log *slog.Logger

	mu     sync.RWMutex
	active map[string]net.Conn
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:    log,
		active: make(map[string]net.Conn),
	}
}

// Start installs the session for an identity, replacing any prior entry.
func (r *Registry) Start(email string, conn net.Conn) {
	key := domain.NormalizeEmail(email)

	r.mu.Lock()
	r.active[key] = conn
	r.mu.Unlock()

	r.log.Info("Session started", "user", key)
}

// End removes the session if present. Ending a non-session is a no-op, which
// keeps logout idempotent.
func (r *Registry) End(email string) {
	key := domain.NormalizeEmail(email)

	r.mu.Lock()
	delete(r.active, key)
	r.mu.Unlock()

	r.log.Info("Session ended", "user", key)
}

// IsActive reports whether the identity currently has a session.
func (r *Registry) IsActive(email string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.active[domain.NormalizeEmail(email)]
	return ok
}

// HandleFor returns the connection bound to the identity, or nil.
func (r *Registry) HandleFor(email string) net.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[domain.NormalizeEmail(email)]
}

// ActiveUsers returns a snapshot of the logged-in addresses.
func (r *Registry) ActiveUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.active))
	for email := range r.active {
		users = append(users, email)
	}
	return users
}

// ActiveCount returns the number of live sessions.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// ClearAll drops every session. Used at shutdown.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	r.active = make(map[string]net.Conn)
	r.mu.Unlock()

	r.log.Info("All sessions cleared")
}
