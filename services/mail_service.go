//go:generate go run go.uber.org/mock/mockgen -source=mail_service.go -destination=../mocks/mock_mail_service.go -package=mocks
package services

import (
	"log/slog"

	"github.com/samber/lo"

	"mailroom/domain"
	"mailroom/errors"
	"mailroom/store"
)

type IMailService interface {
	Send(email domain.Email) (domain.Email, error)
	Received(email string) []domain.Email
	Sent(email string) []domain.Email
	Search(email, mailboxType, keyword string) []domain.Email
	ByID(requesterEmail, id string) (domain.Email, bool)
}

// MailService implements the mailbox operations over the store: send with
// recipient validation, directional listing, keyword search and ownership
// checked reads.
type MailService struct {
	store *store.FileStore
	log   *slog.Logger
}

func NewMailService(store *store.FileStore, log *slog.Logger) IMailService {
	return &MailService{store: store, log: log}
}

// Send validates and persists an outgoing email, returning the stored record
// with its assigned ID. The sender field is trusted to be the caller's
// authenticated identity; the dispatcher has already checked the session.
func (s *MailService) Send(email domain.Email) (domain.Email, error) {
	if email.To == "" || email.From == "" || email.Subject == "" || email.Body == "" {
		s.log.Warn("Send rejected, missing fields", "from", email.From, "to", email.To)
		return domain.Email{}, errors.ErrMissingEmailFields
	}
	if !s.store.UserExists(email.To) {
		s.log.Warn("Send rejected, unknown recipient", "to", domain.NormalizeEmail(email.To))
		return domain.Email{}, errors.ErrUnknownRecipient
	}

	if !domain.ValidTimestamp(email.Timestamp) {
		email.Timestamp = domain.Now()
	}
	email.Visible = true

	stored := s.store.AddEmail(email)
	s.log.Info("Email sent", "id", stored.ID, "from", stored.From, "to", stored.To)
	return stored, nil
}

// Received lists the visible emails addressed to the user, oldest first.
func (s *MailService) Received(email string) []domain.Email {
	return visible(s.store.EmailsFor(email, domain.DirectionReceived))
}

// Sent lists the visible emails the user sent, oldest first.
func (s *MailService) Sent(email string) []domain.Email {
	return visible(s.store.EmailsFor(email, domain.DirectionSent))
}

// Search matches the keyword against subject and body within one direction of
// the user's mailbox. An empty keyword yields an empty result rather than the
// full mailbox; dumping everything through search was never intended.
func (s *MailService) Search(email, mailboxType, keyword string) []domain.Email {
	if keyword == "" {
		return []domain.Email{}
	}
	return visible(s.store.SearchEmails(email, domain.ParseDirection(mailboxType), keyword))
}

// ByID returns the email only when the requester is its sender or recipient.
// Denied access and a missing ID are indistinguishable to the caller.
func (s *MailService) ByID(requesterEmail, id string) (domain.Email, bool) {
	email, ok := s.store.EmailByID(id)
	if !ok {
		s.log.Warn("Read failed, email not found", "id", id)
		return domain.Email{}, false
	}
	if !domain.SameAddress(email.To, requesterEmail) && !domain.SameAddress(email.From, requesterEmail) {
		s.log.Warn("Read denied", "user", domain.NormalizeEmail(requesterEmail), "id", id)
		return domain.Email{}, false
	}
	return email, true
}

func visible(emails []domain.Email) []domain.Email {
	return lo.Filter(emails, func(e domain.Email, _ int) bool { return e.Visible })
}
