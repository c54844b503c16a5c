package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursorToken(t *testing.T) {
	ts := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)
	id := "7f0c2a52-2d8b-4a3e-9d51-0e8f5f3c9a11"

	token := EncodeCursorToken(ts, id)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "=", "Token should be usable in a query string")

	decodedTS, decodedID, err := DecodeCursorToken(token)
	require.NoError(t, err)
	assert.Equal(t, ts, decodedTS)
	assert.Equal(t, id, decodedID)

	// Non-UTC input comes back as the same instant.
	ist := time.FixedZone("IST", 5*3600+1800)
	local := time.Date(2026, 5, 15, 20, 0, 45, 0, ist)
	decodedTS, _, err = DecodeCursorToken(EncodeCursorToken(local, id))
	require.NoError(t, err)
	assert.True(t, local.Equal(decodedTS))
}

func TestDecodeCursorTokenError(t *testing.T) {
	_, _, err := DecodeCursorToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.RawURLEncoding.EncodeToString([]byte("2026-05-15T00:00:00Z"))
	_, _, err = DecodeCursorToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|abc"))
	_, _, err = DecodeCursorToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp parse")
}
