// Package store owns the in-process state of the mail system: the registered
// users and every email ever sent. It is the only component allowed to mutate
// those collections, and it persists them as two line-delimited JSON files
// using a write-to-temp-then-rename snapshot so a crash mid-save never
// corrupts the previous good file.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"mailroom/domain"
)

// FileStore holds users and emails under two independent locks, so a slow
// mailbox scan never blocks a registration and vice versa. Every accessor
// copies data in or out; callers never see a live reference into the maps.
type FileStore struct {
	usersPath  string
	emailsPath string
	log        *slog.Logger

	userMu sync.RWMutex
	users  map[string]domain.User

	emailMu sync.RWMutex
	emails  []domain.Email
}

// NewFileStore builds an empty store bound to its two snapshot files. Parent
// directories are created eagerly so the first Save cannot fail on a missing
// path.
func NewFileStore(usersPath, emailsPath string, log *slog.Logger) *FileStore {
	for _, p := range []string{usersPath, emailsPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Error("Failed to create data directory", "dir", dir, "error", err)
			}
		}
	}
	return &FileStore{
		usersPath:  usersPath,
		emailsPath: emailsPath,
		log:        log,
		users:      make(map[string]domain.User),
	}
}

// SaveUser inserts a user keyed by normalized email. It returns false when
// the address is already taken. The existence check and the insert run under
// one lock, so two concurrent registrations of the same address can never
// both succeed.
func (s *FileStore) SaveUser(user domain.User) bool {
	key := domain.NormalizeEmail(user.Email)

	s.userMu.Lock()
	defer s.userMu.Unlock()
	if _, exists := s.users[key]; exists {
		return false
	}
	user.Email = key
	s.users[key] = user
	return true
}

// GetUser looks up a user by address.
func (s *FileStore) GetUser(email string) (domain.User, bool) {
	s.userMu.RLock()
	defer s.userMu.RUnlock()
	user, ok := s.users[domain.NormalizeEmail(email)]
	return user, ok
}

// UserExists reports whether an address is registered.
func (s *FileStore) UserExists(email string) bool {
	_, ok := s.GetUser(email)
	return ok
}

// AddEmail appends an email to the store, assigning an ID when the sender did
// not provide one. Recipient validation is the caller's responsibility.
func (s *FileStore) AddEmail(email domain.Email) domain.Email {
	if email.ID == "" {
		email.ID = uuid.NewString()
	}

	s.emailMu.Lock()
	defer s.emailMu.Unlock()
	s.emails = append(s.emails, email)
	return email
}

// EmailsFor returns the user's mailbox along one direction, in insertion
// order: emails they sent, or emails addressed to them.
func (s *FileStore) EmailsFor(email string, direction domain.Direction) []domain.Email {
	key := domain.NormalizeEmail(email)

	s.emailMu.RLock()
	defer s.emailMu.RUnlock()
	return lo.Filter(s.emails, func(e domain.Email, _ int) bool {
		return matchesDirection(e, key, direction)
	})
}

// EmailByID finds an email by its unique ID, regardless of owner.
func (s *FileStore) EmailByID(id string) (domain.Email, bool) {
	s.emailMu.RLock()
	defer s.emailMu.RUnlock()
	for _, e := range s.emails {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Email{}, false
}

// SearchEmails returns the direction-filtered mailbox entries whose subject
// or body contains the keyword, case-insensitively.
func (s *FileStore) SearchEmails(email string, direction domain.Direction, keyword string) []domain.Email {
	key := domain.NormalizeEmail(email)
	needle := strings.ToLower(keyword)

	s.emailMu.RLock()
	defer s.emailMu.RUnlock()
	return lo.Filter(s.emails, func(e domain.Email, _ int) bool {
		if !matchesDirection(e, key, direction) {
			return false
		}
		return strings.Contains(strings.ToLower(e.Subject), needle) ||
			strings.Contains(strings.ToLower(e.Body), needle)
	})
}

func matchesDirection(e domain.Email, normalized string, direction domain.Direction) bool {
	if direction == domain.DirectionSent {
		return domain.NormalizeEmail(e.From) == normalized
	}
	return domain.NormalizeEmail(e.To) == normalized
}

// UserCount returns the number of registered users.
func (s *FileStore) UserCount() int {
	s.userMu.RLock()
	defer s.userMu.RUnlock()
	return len(s.users)
}

// EmailCount returns the number of stored emails.
func (s *FileStore) EmailCount() int {
	s.emailMu.RLock()
	defer s.emailMu.RUnlock()
	return len(s.emails)
}

// Load populates both collections from disk. A missing file means a first
// boot and is not an error; a line that fails to decode is skipped and
// logged, never fatal. Load is meant to run once, before any connection is
// accepted.
func (s *FileStore) Load() error {
	if err := s.loadUsers(); err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if err := s.loadEmails(); err != nil {
		return fmt.Errorf("loading emails: %w", err)
	}
	return nil
}

func (s *FileStore) loadUsers() error {
	s.userMu.Lock()
	defer s.userMu.Unlock()
	return s.readLines(s.usersPath, func(line []byte) {
		var user domain.User
		if err := json.Unmarshal(line, &user); err != nil || user.Email == "" {
			s.log.Warn("Skipped malformed user entry", "file", s.usersPath)
			return
		}
		s.users[domain.NormalizeEmail(user.Email)] = user
	})
}

func (s *FileStore) loadEmails() error {
	s.emailMu.Lock()
	defer s.emailMu.Unlock()
	return s.readLines(s.emailsPath, func(line []byte) {
		var email domain.Email
		if err := json.Unmarshal(line, &email); err != nil {
			s.log.Warn("Skipped malformed email entry", "file", s.emailsPath)
			return
		}
		s.emails = append(s.emails, email)
	})
}

func (s *FileStore) readLines(path string, consume func(line []byte)) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		s.log.Info("No snapshot yet, starting empty", "file", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			consume([]byte(line))
		}
	}
	return scanner.Err()
}

// maxLineBytes bounds a single persisted record; bodies are short messages.
const maxLineBytes = 1 << 20

// Save snapshots both collections to disk. Each file is fully written to a
// hidden temp sibling and atomically renamed over the previous snapshot, so
// a failure at any point leaves the old file untouched. The per-collection
// lock is held across the write, which also guarantees no mutation can
// interleave with a shutdown snapshot.
func (s *FileStore) Save() error {
	s.userMu.RLock()
	userLines := make([]any, 0, len(s.users))
	for _, u := range s.users {
		userLines = append(userLines, u)
	}
	err := s.writeSnapshot(s.usersPath, userLines)
	s.userMu.RUnlock()
	if err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	s.log.Info("User snapshot saved", "file", s.usersPath, "records", len(userLines))

	s.emailMu.RLock()
	emailLines := lo.Map(s.emails, func(e domain.Email, _ int) any { return e })
	err = s.writeSnapshot(s.emailsPath, emailLines)
	s.emailMu.RUnlock()
	if err != nil {
		return fmt.Errorf("saving emails: %w", err)
	}
	s.log.Info("Email snapshot saved", "file", s.emailsPath, "records", len(emailLines))
	return nil
}

func (s *FileStore) writeSnapshot(path string, records []any) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, record := range records {
		data, err := json.Marshal(record)
		if err == nil {
			_, err = w.Write(append(data, '\n'))
		}
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
