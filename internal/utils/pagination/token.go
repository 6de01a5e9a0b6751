package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Cursor is the position of the last row of a page for lists ordered by
// (sort_date DESC, created_at DESC, id DESC). ID breaks ties between rows
// created in the same instant.
type Cursor struct {
	SortDate  time.Time `json:"d"`
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

// EncodeToken turns a cursor into an opaque token safe to pass as a query parameter.
func EncodeToken(cursor Cursor) string {
	raw, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (payload): %w", err)
	}
	if cursor.ID == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (missing id)")
	}
	return cursor, nil
}
