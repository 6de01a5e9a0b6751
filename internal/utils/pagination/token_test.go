package pagination

import (
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		SortDate:  time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "9b2f6c1e-55aa-4f0e-9d57-0f3c8e0d7a11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token)
	assert.Equal(t, url.QueryEscape(token), token, "token must survive a query string unescaped")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.SortDate.Equal(decoded.SortDate))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte("2026-05-15|x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte(`{"d":"2026-05-15T00:00:00Z"}`)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}
