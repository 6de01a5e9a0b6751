package bot

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SscSPs/splitledger/internal/apperrors"
)

const genericFailure = "😕 Something went wrong on my side. Please try again in a moment."

var sentinels = []error{
	apperrors.ErrValidation,
	apperrors.ErrForbidden,
	apperrors.ErrStateConflict,
	apperrors.ErrNotFound,
	apperrors.ErrDuplicate,
	apperrors.ErrUnauthorized,
}

// userMessage turns a service error into a chat reply. notFound replaces the
// bare "resource not found" text when the caller knows what was missing.
func userMessage(err error, notFound string) string {
	detail := stripSentinels(err.Error())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "⚠️ " + capitalize(detail)
	case errors.Is(err, apperrors.ErrForbidden):
		return "🚫 " + capitalize(detail)
	case errors.Is(err, apperrors.ErrStateConflict):
		return "⚠️ " + capitalize(detail)
	case errors.Is(err, apperrors.ErrNotFound):
		if detail == "" || notFound != "" {
			return "❓ " + notFound
		}
		return "❓ " + capitalize(detail)
	default:
		return genericFailure
	}
}

// stripSentinels drops leading "sentinel: " prefixes so only the contextual detail remains.
func stripSentinels(msg string) string {
	for changed := true; changed; {
		changed = false
		for _, s := range sentinels {
			text := s.Error()
			if msg == text {
				return ""
			}
			if strings.HasPrefix(msg, text+": ") {
				msg = strings.TrimPrefix(msg, text+": ")
				changed = true
			}
		}
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
