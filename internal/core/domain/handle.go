package domain

import "strings"

// NormalizeHandle canonicalises a participant handle: surrounding whitespace and a
// leading "@" are dropped and the result is lower-cased, so "@Alice" and "alice"
// identify the same participant.
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(handle)
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(strings.TrimSpace(h))
}

// DedupeHandles normalises handles and collapses duplicates, keeping first-seen order.
// Empty handles are dropped.
func DedupeHandles(handles []string) []string {
	seen := make(map[string]struct{}, len(handles))
	out := make([]string, 0, len(handles))
	for _, raw := range handles {
		h := NormalizeHandle(raw)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
