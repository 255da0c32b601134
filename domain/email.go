package domain

import (
	"strings"
	"time"
)

// TimestampFormat is the only accepted textual form for email timestamps,
// both on the wire and at rest.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Email is a unit of mail. IDs are unique across the whole store and are
// assigned on first persistence when the sender did not provide one.
// Visible exists for a future soft-delete; the current flow always keeps it true.
type Email struct {
	ID        string `json:"id"`
	To        string `json:"to"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
	Visible   bool   `json:"visible"`
	Edited    bool   `json:"edited"`
}

// ValidTimestamp reports whether ts matches TimestampFormat exactly.
func ValidTimestamp(ts string) bool {
	_, err := time.Parse(TimestampFormat, ts)
	return err == nil
}

// Now returns the current UTC time in TimestampFormat.
func Now() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// Direction is the query axis over a mailbox: emails a user sent, or received.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// ParseDirection maps the wire "type" field to a Direction. Anything that is
// not "received" (case-insensitive) is treated as "sent", mirroring the
// protocol's historical behavior.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(DirectionReceived)) {
		return DirectionReceived
	}
	return DirectionSent
}
