// Package server hosts the network-facing half of the mail system: the TCP
// listener with its bounded connection pool, the per-connection line pump,
// and the dispatcher that turns one wire line into exactly one response line.
package server

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"

	"mailroom/domain"
	"mailroom/errors"
	"mailroom/protocol"
	"mailroom/services"
	"mailroom/sessions"
)

// CommandDispatcher parses, authorizes and routes a single protocol line.
// It is stateless across calls; authorization is decided per request by the
// session registry, keyed on the identity the payload claims, not on the
// transport channel the request arrived on.
type CommandDispatcher struct {
	auth     services.IAuthService
	mail     services.IMailService
	sessions *sessions.Registry
	log      *slog.Logger
}

func NewCommandDispatcher(
	auth services.IAuthService,
	mail services.IMailService,
	sessions *sessions.Registry,
	log *slog.Logger,
) *CommandDispatcher {
	return &CommandDispatcher{auth: auth, mail: mail, sessions: sessions, log: log}
}

// Handle processes one raw line and always returns exactly one response
// line, whatever happens inside; the client's blocking read loop must never
// stall on a half-processed command.
func (d *CommandDispatcher) Handle(line string, conn net.Conn) (response string) {
	request, err := protocol.DecodeRequest(line)
	if err != nil {
		d.log.Warn("Malformed command", "remote", remoteAddr(conn), "line", line)
		return protocol.Refuse(protocol.RespInvalidFormat, protocol.ReasonMissingDelimiter)
	}

	// A panic while processing must still produce the command's failure
	// line, otherwise the client blocks forever waiting for a response.
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Command processing panicked", "command", request.Command, "panic", r)
			response = protocol.Fail(request.Command, protocol.ReasonInternal)
		}
	}()

	switch request.Command {
	case protocol.CmdRegister:
		return d.handleRegister(request.Payload)
	case protocol.CmdLogin:
		return d.handleLogin(request.Payload, conn)
	case protocol.CmdLogout:
		return d.handleLogout(request.Payload)
	case protocol.CmdSendEmail:
		return d.handleSend(request.Payload)
	case protocol.CmdRetrieveEmails:
		return d.handleRetrieve(request.Payload)
	case protocol.CmdSearchEmail:
		return d.handleSearch(request.Payload)
	case protocol.CmdReadEmail:
		return d.handleRead(request.Payload)
	case protocol.CmdExit:
		return d.handleExit(request.Payload, conn)
	default:
		d.log.Warn("Unknown command", "command", request.Command)
		return protocol.Refuse(protocol.RespUnknownCommand, protocol.ReasonUnknownCommand)
	}
}

func (d *CommandDispatcher) handleRegister(payload string) string {
	var creds protocol.Credentials
	if err := json.Unmarshal([]byte(payload), &creds); err != nil {
		return protocol.Fail(protocol.CmdRegister, protocol.ReasonInternal)
	}

	switch err := d.auth.Register(creds.Email, creds.Password); {
	case err == nil:
		return protocol.Success(protocol.CmdRegister)
	case stderrors.Is(err, errors.ErrMissingCredentials):
		return protocol.Fail(protocol.CmdRegister, protocol.ReasonMissingCredentials)
	case stderrors.Is(err, errors.ErrAlreadyRegistered):
		return protocol.Fail(protocol.CmdRegister, protocol.ReasonAlreadyRegistered)
	default:
		d.log.Error("Registration error", "error", err)
		return protocol.Fail(protocol.CmdRegister, protocol.ReasonInternal)
	}
}

func (d *CommandDispatcher) handleLogin(payload string, conn net.Conn) string {
	var creds protocol.Credentials
	if err := json.Unmarshal([]byte(payload), &creds); err != nil {
		return protocol.Fail(protocol.CmdLogin, protocol.ReasonInternal)
	}

	switch err := d.auth.Login(creds.Email, creds.Password, conn); {
	case err == nil:
		return protocol.Success(protocol.CmdLogin)
	case stderrors.Is(err, errors.ErrMissingCredentials):
		return protocol.Fail(protocol.CmdLogin, protocol.ReasonMissingCredentials)
	case stderrors.Is(err, errors.ErrUserNotFound):
		return protocol.Fail(protocol.CmdLogin, protocol.ReasonUserNotFound)
	case stderrors.Is(err, errors.ErrCorruptedCredential):
		return protocol.Fail(protocol.CmdLogin, protocol.ReasonCorruptedCredential)
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		return protocol.Fail(protocol.CmdLogin, protocol.ReasonInvalidCredentials)
	default:
		d.log.Error("Login error", "error", err)
		return protocol.Fail(protocol.CmdLogin, protocol.ReasonInternal)
	}
}

func (d *CommandDispatcher) handleLogout(payload string) string {
	var req protocol.LogoutRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return protocol.Fail(protocol.CmdLogout, protocol.ReasonInternal)
	}
	if req.Email == "" {
		return protocol.Fail(protocol.CmdLogout, protocol.ReasonMissingLogoutEmail)
	}

	d.auth.Logout(req.Email)
	return protocol.Success(protocol.CmdLogout)
}

func (d *CommandDispatcher) handleSend(payload string) string {
	var email domain.Email
	if err := json.Unmarshal([]byte(payload), &email); err != nil {
		return protocol.Fail(protocol.CmdSendEmail, protocol.ReasonInternal)
	}

	// The sender field is the claimed identity; it must hold a session.
	if !d.sessions.IsActive(email.From) {
		return protocol.Refuse(protocol.RespUnauthorized, protocol.ReasonNotLoggedIn)
	}

	if _, err := d.mail.Send(email); err != nil {
		d.log.Warn("Send failed", "from", email.From, "error", err)
		return protocol.Fail(protocol.CmdSendEmail, protocol.ReasonSendRejected)
	}
	return protocol.Success(protocol.CmdSendEmail)
}

func (d *CommandDispatcher) handleRetrieve(payload string) string {
	var req protocol.RetrieveRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return protocol.Fail(protocol.CmdRetrieveEmails, protocol.ReasonInternal)
	}
	if req.Email == "" || req.Type == "" {
		return protocol.Fail(protocol.CmdRetrieveEmails, protocol.ReasonMissingRetrieve)
	}
	if !d.sessions.IsActive(req.Email) {
		return protocol.Refuse(protocol.RespUnauthorized, protocol.ReasonNotLoggedIn)
	}

	var emails []domain.Email
	if domain.ParseDirection(req.Type) == domain.DirectionReceived {
		emails = d.mail.Received(req.Email)
	} else {
		emails = d.mail.Sent(req.Email)
	}
	return d.successWithJSON(protocol.CmdRetrieveEmails, emails)
}

func (d *CommandDispatcher) handleSearch(payload string) string {
	var req protocol.SearchRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return protocol.Fail(protocol.CmdSearchEmail, protocol.ReasonInternal)
	}
	if req.Email == "" || req.Type == "" {
		return protocol.Fail(protocol.CmdSearchEmail, protocol.ReasonMissingSearch)
	}
	if !d.sessions.IsActive(req.Email) {
		return protocol.Refuse(protocol.RespUnauthorized, protocol.ReasonNotLoggedIn)
	}

	results := d.mail.Search(req.Email, req.Type, req.Keyword)
	if len(results) == 0 {
		d.log.Info("Search returned no results", "user", req.Email, "keyword", req.Keyword)
		return protocol.Fail(protocol.CmdSearchEmail, protocol.ReasonNoSearchResults)
	}
	return d.successWithJSON(protocol.CmdSearchEmail, results)
}

func (d *CommandDispatcher) handleRead(payload string) string {
	var req protocol.ReadRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return protocol.Fail(protocol.CmdReadEmail, protocol.ReasonInternal)
	}
	if req.Email == "" || req.ID == "" {
		return protocol.Fail(protocol.CmdReadEmail, protocol.ReasonMissingRead)
	}
	if !d.sessions.IsActive(req.Email) {
		return protocol.Refuse(protocol.RespUnauthorized, protocol.ReasonNotLoggedIn)
	}

	email, ok := d.mail.ByID(req.Email, req.ID)
	if !ok {
		return protocol.Fail(protocol.CmdReadEmail, protocol.ReasonReadDenied)
	}
	return d.successWithJSON(protocol.CmdReadEmail, email)
}

// handleExit ends the session when the client named one, then acknowledges.
// EXIT never fails: the client is leaving either way.
func (d *CommandDispatcher) handleExit(payload string, conn net.Conn) string {
	var req protocol.LogoutRequest
	if err := json.Unmarshal([]byte(payload), &req); err == nil &&
		req.Email != "" && d.sessions.IsActive(req.Email) {
		d.sessions.End(req.Email)
		d.log.Info("Session ended on exit", "user", req.Email)
	} else {
		d.log.Info("Exit from unauthenticated client", "remote", remoteAddr(conn))
	}
	return protocol.Success(protocol.CmdExit)
}

func (d *CommandDispatcher) successWithJSON(command string, result any) string {
	data, err := json.Marshal(result)
	if err != nil {
		d.log.Error("Result encoding failed", "command", command, "error", err)
		return protocol.Fail(command, protocol.ReasonInternal)
	}
	return protocol.SuccessWithPayload(command, string(data))
}

func remoteAddr(conn net.Conn) string {
	if conn == nil {
		return "unknown"
	}
	return conn.RemoteAddr().String()
}
