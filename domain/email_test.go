package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTimestamp(t *testing.T) {
	assert.True(t, ValidTimestamp("2026-08-31T10:15:00Z"))
	assert.False(t, ValidTimestamp(""))
	assert.False(t, ValidTimestamp("2026-08-31 10:15:00"))
	assert.False(t, ValidTimestamp("31/08/2026"))
}

func TestNow(t *testing.T) {
	require.True(t, ValidTimestamp(Now()))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirectionReceived, ParseDirection("received"))
	assert.Equal(t, DirectionReceived, ParseDirection("RECEIVED"))
	assert.Equal(t, DirectionSent, ParseDirection("sent"))
	// Anything that is not "received" falls back to "sent".
	assert.Equal(t, DirectionSent, ParseDirection("outbox"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	assert.True(t, SameAddress("A@x.com", "a@X.COM"))
	assert.False(t, SameAddress("a@x.com", "b@x.com"))
}
