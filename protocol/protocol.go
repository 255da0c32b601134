// Package protocol defines the line-oriented wire format shared by the server
// and the console client: one "COMMAND%%{json}" request per line, one response
// line per request. The codec is pure and stateless.
package protocol

import (
	"fmt"
	"strings"

	"mailroom/errors"
)

// Delimiter separates the command token from its JSON payload.
const Delimiter = "%%"

// Command identifiers.
const (
	CmdRegister       = "REGISTER"
	CmdLogin          = "LOGIN"
	CmdLogout         = "LOGOUT"
	CmdSendEmail      = "SEND_EMAIL"
	CmdRetrieveEmails = "RETRIEVE_EMAILS"
	CmdSearchEmail    = "SEARCH_EMAIL"
	CmdReadEmail      = "READ_EMAIL"
	CmdExit           = "EXIT"
)

// Structural response tokens. Command responses are derived with Success and
// Fail rather than enumerated.
const (
	RespInvalidFormat  = "INVALID_FORMAT"
	RespUnauthorized   = "UNAUTHORIZED"
	RespUnknownCommand = "UNKNOWN_COMMAND"
)

// Reason strings carried after the delimiter on failure responses. Clients
// display them verbatim, so they are part of the external contract.
const (
	ReasonMissingDelimiter    = "Missing delimiter"
	ReasonNotLoggedIn         = "User not logged in"
	ReasonUnknownCommand      = "Command not recognized"
	ReasonInternal            = "Malformed JSON or internal error"
	ReasonMissingCredentials  = "Missing required fields: email or password"
	ReasonAlreadyRegistered   = "Email already registered"
	ReasonUserNotFound        = "User not found"
	ReasonCorruptedCredential = "Corrupted password entry"
	ReasonInvalidCredentials  = "Invalid credentials"
	ReasonMissingLogoutEmail  = "Missing required field: email"
	ReasonSendRejected        = "Validation or recipient failure"
	ReasonMissingRetrieve     = "Missing fields: 'type' or 'email'"
	ReasonMissingSearch       = "Missing fields"
	ReasonNoSearchResults     = "No emails found matching keyword"
	ReasonMissingRead         = "Missing 'email' or 'id'"
	ReasonReadDenied          = "Email not found or access denied"
)

// Request is one decoded wire line. Payload is kept as raw JSON; the
// dispatcher decides which typed payload to unmarshal it into.
type Request struct {
	Command string
	Payload string
}

// DecodeRequest splits a raw line into command and payload. A line without
// the delimiter is a structural error; the payload itself is not inspected.
func DecodeRequest(line string) (Request, error) {
	if !strings.Contains(line, Delimiter) {
		return Request{}, errors.ErrMissingDelimiter
	}
	parts := strings.SplitN(line, Delimiter, 2)
	return Request{Command: parts[0], Payload: parts[1]}, nil
}

// EncodeRequest builds a wire line from a command and its JSON payload.
func EncodeRequest(command, payload string) string {
	return command + Delimiter + payload
}

// Success builds the bare success response for a command.
func Success(command string) string {
	return command + "_SUCCESS"
}

// SuccessWithPayload builds a success response carrying a JSON result.
func SuccessWithPayload(command, payload string) string {
	return fmt.Sprintf("%s_SUCCESS%s%s", command, Delimiter, payload)
}

// Fail builds the failure response for a command with a reason string.
func Fail(command, reason string) string {
	return fmt.Sprintf("%s_FAIL%s%s", command, Delimiter, reason)
}

// Refuse builds a structural error response (INVALID_FORMAT, UNAUTHORIZED,
// UNKNOWN_COMMAND) with a reason string.
func Refuse(token, reason string) string {
	return token + Delimiter + reason
}

// SplitResponse separates a response line into its token and optional payload.
// Used by the client; the second value is empty when no payload was carried.
func SplitResponse(line string) (token, payload string) {
	parts := strings.SplitN(line, Delimiter, 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// Credentials is the payload of REGISTER and LOGIN.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogoutRequest is the payload of LOGOUT and EXIT; EXIT may omit the email.
type LogoutRequest struct {
	Email string `json:"email"`
}

// RetrieveRequest is the payload of RETRIEVE_EMAILS.
type RetrieveRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// SearchRequest is the payload of SEARCH_EMAIL.
type SearchRequest struct {
	Email   string `json:"email"`
	Type    string `json:"type"`
	Keyword string `json:"keyword"`
}

// ReadRequest is the payload of READ_EMAIL.
type ReadRequest struct {
	Email string `json:"email"`
	ID    string `json:"id"`
}
