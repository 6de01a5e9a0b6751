package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// handleKey is the key used to store the authenticated participant handle.
const handleKey = contextKey("handle")

// WithHandle returns a copy of ctx carrying the acting participant handle.
func WithHandle(ctx context.Context, handle string) context.Context {
	return context.WithValue(ctx, handleKey, handle)
}

// GetHandleFromCtx retrieves the acting participant handle from a standard context.
func GetHandleFromCtx(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value(handleKey).(string)
	return handle, ok && handle != ""
}

// GetHandleFromContext retrieves the authenticated participant handle from the Gin context.
// It returns the handle and a boolean indicating if it was found.
func GetHandleFromContext(c *gin.Context) (string, bool) {
	handleVal, exists := c.Get(string(handleKey))
	if !exists {
		// check in the request context as well
		return GetHandleFromCtx(c.Request.Context())
	}

	handle, ok := handleVal.(string)
	if !ok {
		return "", false
	}

	return handle, true
}
